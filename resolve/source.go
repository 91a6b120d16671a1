// Package resolve implements the requirement translator (C2): it turns a
// resolver-agnostic Requirement into the TranslatedDependency tuples the
// conflict-driven core consumes, expanding extras and dropping self-edges.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathanjmcdougall/uv/identity"
	"github.com/nathanjmcdougall/uv/version"
)

// SourceKind distinguishes the five RequirementSource variants.
type SourceKind uint8

const (
	Registry SourceKind = iota
	Url
	Git
	Path
	Directory
)

// Source is the tagged union of where a requirement's versions come from.
// Only one group of fields is meaningful per Kind; callers must switch on
// Kind before reading the rest.
type Source struct {
	Kind SourceKind

	// Registry
	Specifier string

	// Url
	Location     string
	Ext          string
	Subdirectory string
	Verbatim     string

	// Git (also uses Subdirectory, Verbatim above)
	Repository    string
	Reference     string
	PreciseCommit string // empty if unpinned

	// Path (also uses Ext, Verbatim above)
	InstallPath string

	// Directory (also uses InstallPath, Verbatim above)
	Editable bool
	Virtual  bool
}

// ParsedUrl is the normalized form of a non-registry source, kept separate
// from Source.Verbatim so the original user spelling survives translation
// untouched (invariant 2 in the data model: url variant tag must match the
// source tag the dependency came from).
type ParsedUrl struct {
	Kind SourceKind

	ArchiveLocation string
	ArchiveExt      string

	GitRepository    string
	GitReference     string
	GitPreciseCommit string

	PathInstallPath string

	DirInstallPath string
	DirEditable    bool
	DirVirtual     bool

	Subdirectory string
	Verbatim     string
}

// parseSource turns a non-Registry Source into its ParsedUrl form. Registry
// sources never reach here; Translate handles them directly.
func parseSource(s Source) (ParsedUrl, error) {
	switch s.Kind {
	case Url:
		return ParsedUrl{
			Kind:            Url,
			ArchiveLocation: s.Location,
			ArchiveExt:      s.Ext,
			Subdirectory:    s.Subdirectory,
			Verbatim:        s.Verbatim,
		}, nil
	case Git:
		return ParsedUrl{
			Kind:             Git,
			GitRepository:    s.Repository,
			GitReference:     s.Reference,
			GitPreciseCommit: s.PreciseCommit,
			Subdirectory:     s.Subdirectory,
			Verbatim:         s.Verbatim,
		}, nil
	case Path:
		return ParsedUrl{
			Kind:            Path,
			PathInstallPath: s.InstallPath,
			ArchiveExt:      s.Ext,
			Verbatim:        s.Verbatim,
		}, nil
	case Directory:
		return ParsedUrl{
			Kind:           Directory,
			DirInstallPath: s.InstallPath,
			DirEditable:    s.Editable,
			DirVirtual:     s.Virtual,
			Verbatim:       s.Verbatim,
		}, nil
	default:
		return ParsedUrl{}, fmt.Errorf("resolve: not a URL-bearing source kind: %v", s.Kind)
	}
}

func (p ParsedUrl) String() string {
	switch p.Kind {
	case Url:
		if p.Subdirectory != "" {
			return fmt.Sprintf("%s#subdirectory=%s", p.ArchiveLocation, p.Subdirectory)
		}
		return p.ArchiveLocation
	case Git:
		var b strings.Builder
		b.WriteString(p.GitRepository)
		if p.GitReference != "" {
			fmt.Fprintf(&b, "@%s", p.GitReference)
		}
		if p.GitPreciseCommit != "" {
			fmt.Fprintf(&b, " (%s)", p.GitPreciseCommit)
		}
		if p.Subdirectory != "" {
			fmt.Fprintf(&b, "#subdirectory=%s", p.Subdirectory)
		}
		return b.String()
	case Path:
		return p.PathInstallPath
	case Directory:
		if p.DirEditable {
			return fmt.Sprintf("-e %s", p.DirInstallPath)
		}
		return p.DirInstallPath
	default:
		return ""
	}
}

// rangeFromSpecifier compiles a PEP 440 specifier string into the interned
// VersionRange the resolver core operates over. Empty specifiers mean
// unconstrained.
func rangeFromSpecifier(specifier string) (version.Range, error) {
	if strings.TrimSpace(specifier) == "" {
		return version.Full(), nil
	}

	reqs, err := version.ParseVersionRequirements(specifier)
	if err != nil {
		return version.Range{}, fmt.Errorf("resolve: parsing specifier %q: %w", specifier, err)
	}

	return version.RangeFromRequirements(reqs), nil
}

// identityKind maps an extra name (empty for the base edge) and a marker
// presence to the PackageIdentity kind C1 should intern under, per 4.2.b.
func identityKind(extra string, hasMarker bool) identity.Kind {
	switch {
	case extra != "":
		return identity.Extra
	case hasMarker:
		return identity.Marker
	default:
		return identity.Package
	}
}

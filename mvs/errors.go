// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mvs

import (
	"fmt"
	"strings"
)

// ModuleRef identifies one step along a build-list error path: a package
// name and the version it was requested at, standing in for the
// generic module reference the original algorithm this package is
// adapted from used.
type ModuleRef struct {
	Name    string
	Version string
}

// BuildListError decorates an error that occurred gathering requirements
// while constructing a build list. BuildListError prints the chain
// of requirements to the package where the error occurred.
type BuildListError struct {
	Err   error
	stack []buildListErrorElem
}

type buildListErrorElem struct {
	m ModuleRef

	// nextReason is the reason this package depends on the next package in
	// the stack. Typically either "requires", or "updating to".
	nextReason string
}

// NewBuildListError returns a new BuildListError wrapping an error that
// occurred at a package found along the given path of requirements
// and/or upgrades, which must be non-empty.
//
// The isUpgrade function reports whether a path step is due to an
// upgrade. A nil isUpgrade function indicates that none of the path
// steps are due to upgrades.
func NewBuildListError(err error, path []ModuleRef, isUpgrade func(from, to ModuleRef) bool) *BuildListError {
	stack := make([]buildListErrorElem, 0, len(path))
	for len(path) > 1 {
		reason := "requires"
		if isUpgrade != nil && isUpgrade(path[0], path[1]) {
			reason = "updating to"
		}
		stack = append(stack, buildListErrorElem{
			m:          path[0],
			nextReason: reason,
		})
		path = path[1:]
	}
	stack = append(stack, buildListErrorElem{m: path[0]})

	return &BuildListError{
		Err:   err,
		stack: stack,
	}
}

// Module returns the package where the error occurred. If the package
// stack is empty, this returns a zero value.
func (e *BuildListError) Module() ModuleRef {
	if len(e.stack) == 0 {
		return ModuleRef{}
	}
	return e.stack[len(e.stack)-1].m
}

func (e *BuildListError) Error() string {
	b := &strings.Builder{}
	stack := e.stack

	// Don't print packages at the beginning of the chain without a
	// version. These always seem to be the root requirement or a
	// synthetic package.
	for len(stack) > 0 && stack[0].m.Version == "" {
		stack = stack[1:]
	}

	if len(stack) == 0 {
		b.WriteString(e.Err.Error())
	} else {
		for _, elem := range stack[:len(stack)-1] {
			fmt.Fprintf(b, "%s@%s %s\n\t", elem.m.Name, elem.m.Version, elem.nextReason)
		}
		// Ensure that the final package name and version are included as
		// part of the error message.
		m := stack[len(stack)-1].m
		fmt.Fprintf(b, "%s@%s: %v", m.Name, m.Version, e.Err)
	}
	return b.String()
}

// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package geoloc

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no stored prefix contains the queried
// address, e.g. for private or reserved ranges absent from the
// database.
var ErrNotFound = errors.New("no location found for address")

// ErrNotRegularFile is returned when a configured CSV path does not
// point to a regular file.
type ErrNotRegularFile struct {
	Path string
}

func (e ErrNotRegularFile) Error() string {
	return fmt.Sprintf("%q is not a regular file", e.Path)
}

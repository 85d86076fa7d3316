/*
Copyright © 2020 the LakeGas authors.
This file is part of LakeGas.

LakeGas is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

LakeGas is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with LakeGas.  If not, see <http://www.gnu.org/licenses/>.
*/

package lakegas

import "fmt"

// ConfigurationError indicates an invalid scenario or error-model
// configuration, detected before any simulation begins. It is fatal to
// the scenario it describes but must not abort sibling scenarios in a
// batch.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string { return e.msg }

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

// DomainError indicates that a formula received inputs that make it
// mathematically undefined, such as a zero water volume or a zero
// standard signal ratio.
type DomainError struct {
	msg string
}

func (e *DomainError) Error() string { return e.msg }

func domainErrorf(format string, args ...interface{}) error {
	return &DomainError{msg: fmt.Sprintf(format, args...)}
}

// DataShapeError indicates that an empirical record passed to the
// classifier is unusable, for example because its saturation ratio is
// missing or non-finite. It is recorded per record rather than
// aborting the classification pass.
type DataShapeError struct {
	SiteID string
	Visit  int
	msg    string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("lakegas: site %s visit %d: %s", e.SiteID, e.Visit, e.msg)
}

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

// Command lakegas is a command-line interface for the LakeGas
// dissolved-gas measurement uncertainty model.
package main

import (
	"fmt"
	"os"

	"github.com/limnomodel/lakegas/lakegasutil"
)

func main() {
	if err := lakegasutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed classnames.yaml
var classNamesYAML []byte

var classNames map[uint32]string

func init() {
	if err := yaml.Unmarshal(classNamesYAML, &classNames); err != nil {
		panic(fmt.Sprintf("gbx: embedded class name table is invalid: %v", err))
	}
}

// ClassName returns the engine name of a class id, or a hex
// placeholder when the id is not in the table.
func ClassName(id uint32) string {
	if name, ok := classNames[id]; ok {
		return name
	}
	return fmt.Sprintf("class %08X", id)
}

// KnownClass reports whether the class id has a name in the table.
func KnownClass(id uint32) bool {
	_, ok := classNames[id]
	return ok
}

// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"fmt"

	"github.com/invopop/jsonschema"
	kerrors "github.com/jllopis/agentnet/pkg/errors"
)

// Kinds lists the document kinds in load order.
var Kinds = []DocumentKind{KindManifest, KindAgent, KindSkill}

// JSONSchema describes the header accepted for kind as a JSON Schema, for
// editors and external validators.
func JSONSchema(kind DocumentKind) (*jsonschema.Schema, error) {
	var v any
	switch kind {
	case KindManifest:
		v = &Manifest{}
	case KindAgent:
		v = &Agent{}
	case KindSkill:
		v = &Skill{}
	default:
		return nil, kerrors.New(kerrors.CodeInvalidInput, fmt.Sprintf("unknown document kind %q", kind), nil).
			WithContext("known", Kinds)
	}
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		ExpandedStruct:             true,
		Anonymous:                  true,
		AllowAdditionalProperties:  true,
	}
	schema := r.Reflect(v)
	schema.Title = string(kind)
	return schema, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks inbound request models before the services touch
// the store.
//
// A Validator accepts a model and an optional list of field names. With no
// fields it applies the model's default rule set; with fields it checks only
// those, which lets a service run the cheap presence checks, consult the
// store, and then run the remaining checks in the order the API reports them.
package validators

import "context"

// Validator validates request models, optionally restricted to the named
// fields so that callers can run checks in several steps.
type Validator interface {
	Validate(context.Context, any, ...string) error
}

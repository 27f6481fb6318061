package mixin_test

import (
	"testing"

	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/field/evalpoint"
	"github.com/luxfi/robustmpc/pkg/party"
	"github.com/luxfi/robustmpc/pkg/poly"
)

// sharedSecret deals secret into a degree-t Shamir sharing across ids, the
// same way pkg/runner's own tests and cmd/mpc-cli's simulate command do.
func sharedSecret(t *testing.T, ids []party.ID, degree int, secret field.F) map[party.ID]field.F {
	t.Helper()
	p := poly.Random(degree, secret)
	points := evalpoint.Sequential(len(ids))
	out := make(map[party.ID]field.F, len(ids))
	for i, id := range ids {
		out[id] = p.Eval(points[i])
	}
	return out
}

// sharedVector deals each element of secrets independently, returning each
// party's share vector in the same order.
func sharedVector(t *testing.T, ids []party.ID, degree int, secrets []field.F) map[party.ID][]field.F {
	t.Helper()
	points := evalpoint.Sequential(len(ids))
	polys := make([]poly.Polynomial, len(secrets))
	for i, s := range secrets {
		polys[i] = poly.Random(degree, s)
	}
	out := make(map[party.ID][]field.F, len(ids))
	for i, id := range ids {
		vs := make([]field.F, len(secrets))
		for j, p := range polys {
			vs[j] = p.Eval(points[i])
		}
		out[id] = vs
	}
	return out
}

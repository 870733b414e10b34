package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/obsparse/internal/parseerr"
)

// Lookup resolves one raw reference. An all-digit value is an id and yields a
// single candidate; anything else is matched textually and narrowed with
// Narrow. Misses become ObjectNotFoundById or ObjectNotFoundByString errors;
// resolver failures are returned wrapped.
func Lookup(ctx context.Context, r Resolver, t Type, raw string) ([]Candidate, error) {
	raw = strings.TrimSpace(raw)
	if isID(raw) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, parseerr.NotFoundByString(string(t), raw)
		}
		got, err := r.ResolveByID(ctx, t, id)
		if errors.Is(err, ErrNotFound) {
			return nil, parseerr.NotFoundByID(string(t), id)
		}
		if err != nil {
			return nil, fmt.Errorf("resolve %s %d: %w", t, id, err)
		}
		return []Candidate{{ID: got}}, nil
	}

	cands, err := r.ResolveByString(ctx, t, raw)
	if errors.Is(err, ErrNotFound) || (err == nil && len(cands) == 0) {
		return nil, parseerr.NotFoundByString(string(t), raw)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s %q: %w", t, raw, err)
	}
	return Narrow(t, raw, cands), nil
}

// LookupOne is Lookup that requires a single survivor. Several survivors
// are reported as Ambiguous with their ids.
func LookupOne(ctx context.Context, r Resolver, t Type, raw string) (int64, error) {
	cands, err := Lookup(ctx, r, t, raw)
	if err != nil {
		return 0, err
	}
	if len(cands) > 1 {
		ids := make([]int64, len(cands))
		for i, c := range cands {
			ids[i] = c.ID
		}
		return 0, parseerr.Ambiguous(string(t), raw, ids)
	}
	return cands[0].ID, nil
}

// Narrow disambiguates textual name matches: exact search-name matches win
// if there are any, then non-deprecated names win if there are any. Other
// types are returned unchanged.
func Narrow(t Type, text string, cands []Candidate) []Candidate {
	if t != Name || len(cands) < 2 {
		return cands
	}
	key := Key(text)
	if exact := filter(cands, func(c Candidate) bool { return Key(c.SearchName) == key }); len(exact) > 0 {
		cands = exact
	}
	if current := filter(cands, func(c Candidate) bool { return !c.Deprecated }); len(current) > 0 {
		cands = current
	}
	return cands
}

func filter(cands []Candidate, keep func(Candidate) bool) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Require checks every permission in order and reports the first one actor
// lacks as PermissionDenied.
func Require(ctx context.Context, r Resolver, t Type, id int64, perms []Permission, actor int64) error {
	for _, p := range perms {
		ok, err := r.CheckPermission(ctx, t, id, p, actor)
		if err != nil {
			return fmt.Errorf("check %s permission on %s %d: %w", p, t, id, err)
		}
		if !ok {
			return parseerr.PermissionDenied(string(t), strconv.FormatInt(id, 10), string(p))
		}
	}
	return nil
}

func isID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

package analysis

import (
	"context"
	"errors"
	"fmt"

	"XRay/internal/calc/diffraction"
	"XRay/internal/calc/report"
	"XRay/internal/repo"
)

// Request is the analyze payload: the five optional parameters plus the
// anode shortcut, output mode and optional PDF cover fields.
type Request struct {
	diffraction.Input
	Anode  string      `json:"anode,omitempty"`
	Output string      `json:"output,omitempty"`
	Report report.Meta `json:"report"`
}

// Resolve fills the wavelength from the anode catalogue when only an anode
// symbol is given. An explicit wavelength always wins.
func Resolve(ctx context.Context, anodes repo.Repository, req Request) (diffraction.Input, error) {
	in := req.Input
	if in.Wavelength != nil || req.Anode == "" {
		return in, nil
	}
	if anodes == nil {
		return in, &diffraction.ValidationError{Field: "anode", Msg: "is not supported without an anode catalogue"}
	}
	a, err := anodes.GetAnode(ctx, req.Anode)
	if errors.Is(err, repo.ErrAnodeNotFound) {
		return in, &diffraction.ValidationError{Field: "anode", Msg: fmt.Sprintf("unknown anode %q", req.Anode)}
	}
	if err != nil {
		return in, fmt.Errorf("lookup anode %s: %w", req.Anode, err)
	}
	w := a.Wavelength
	in.Wavelength = &w
	return in, nil
}

package features

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/smallbiznis/pixomat/internal/dispatch"
)

// compressPDF rewrites the document through the optimizer, deduplicating
// resources and dropping unused objects.
func compressPDF(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	if req.File == nil {
		return nil, fmt.Errorf("%w: no file provided", dispatch.ErrInvalidInput)
	}

	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(req.File.Data), &buf, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrInvalidInput, err)
	}

	return &dispatch.Result{Artifact: &dispatch.Artifact{
		Name: "compressed.pdf",
		MIME: "application/pdf",
		Data: buf.Bytes(),
	}}, nil
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"relief/internal/api"
	"relief/internal/download"
	"relief/internal/job"
)

const imageContentType = "image/png"

// ConvertRequest describes a synchronous conversion of one image.
type ConvertRequest struct {
	Image []byte
	// Filename is the source image name. The service swaps its extension
	// for the output format's.
	Filename       string
	Dimensions     job.Dimensions
	BlackThickness float64
}

func convertEndpoint(kind job.Kind) (string, bool) {
	switch kind {
	case job.KindSTL:
		return "extrude/", true
	case job.KindSVG:
		return "svg/", true
	case job.Kind3MF:
		return "3mf/", true
	case job.KindBacked3MF:
		return "backed3mf/", true
	default:
		return "", false
	}
}

// Convert runs a synchronous conversion and returns the generated file.
// Stacked 3MF is only available as a queued job.
func (c *Client) Convert(ctx context.Context, kind job.Kind, req ConvertRequest) (Payload, error) {
	endpoint, ok := convertEndpoint(kind)
	if !ok {
		return Payload{}, fmt.Errorf("%w: %s has no synchronous endpoint", job.ErrInvalidJobType, kind)
	}

	query := url.Values{"filename": {req.Filename}}
	if kind != job.KindSVG {
		query.Set("x", formatFloat(req.Dimensions.X))
		query.Set("y", formatFloat(req.Dimensions.Y))
		query.Set("z", formatFloat(req.Dimensions.Z))
	}
	if kind == job.KindBacked3MF {
		query.Set("blackthickness", formatFloat(req.BlackThickness))
	}

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpoint,
		query:       query,
		body:        req.Image,
		contentType: imageContentType,
		kind:        ErrConversionFailed,
	})
	if err != nil {
		return Payload{}, err
	}
	fallback := job.NormalizeFilename(req.Filename, kind)
	return Payload{Filename: download.Filename(resp.header, fallback), Data: resp.body}, nil
}

// IdentifyColours returns the palette the service detects in image.
func (c *Client) IdentifyColours(ctx context.Context, image []byte) (api.Colours, error) {
	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpointColourIdentify,
		body:        image,
		contentType: imageContentType,
		kind:        ErrConversionFailed,
	})
	if err != nil {
		return nil, err
	}
	var out api.Colours
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrConversionFailed, endpointColourIdentify, err)
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

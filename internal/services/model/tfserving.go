package model

import (
	"context"
	"fmt"
	"strings"

	"SignalAPI/internal/domain/models"
	xhttp "SignalAPI/pkg/http"
)

// TFServing calls a TensorFlow Serving REST endpoint.
type TFServing struct {
	baseURL   string
	model     string
	inputSize int
	client    *xhttp.Client
}

type predictRequest struct {
	Instances interface{} `json:"instances"`
}

type predictResponse struct {
	Predictions []interface{} `json:"predictions"`
}

type modelStatusResponse struct {
	ModelVersionStatus []struct {
		Version string `json:"version"`
		State   string `json:"state"`
	} `json:"model_version_status"`
}

// NewTFServing builds a remote predictor. The remote does not report its input
// width, so inputSize comes from configuration.
func NewTFServing(baseURL, model string, inputSize int, client *xhttp.Client) *TFServing {
	if client == nil {
		client = xhttp.NewClient()
	}
	return &TFServing{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		inputSize: inputSize,
		client:    client,
	}
}

func (s *TFServing) Name() string {
	return "tfserving:" + s.model
}

func (s *TFServing) InputSize() int {
	return s.inputSize
}

// Ping checks that at least one version of the model is AVAILABLE.
func (s *TFServing) Ping(ctx context.Context) error {
	var status modelStatusResponse
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v1/models/%s", s.baseURL, s.model),
	}, &status)
	if err != nil {
		return fmt.Errorf("model status: %w", err)
	}
	for _, v := range status.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			return nil
		}
	}
	return fmt.Errorf("model %s has no available version", s.model)
}

func (s *TFServing) Predict(ctx context.Context, in models.Tensor) (float64, error) {
	var resp predictResponse
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf("%s/v1/models/%s:predict", s.baseURL, s.model),
		Body:   predictRequest{Instances: in.Nested()},
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	if len(resp.Predictions) == 0 {
		return 0, fmt.Errorf("predict: empty predictions")
	}
	return firstScalar(resp.Predictions[0])
}

// firstScalar accepts both [[p]] and [p] response layouts.
func firstScalar(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case []interface{}:
		if len(x) == 0 {
			return 0, fmt.Errorf("predict: empty prediction row")
		}
		return firstScalar(x[0])
	default:
		return 0, fmt.Errorf("predict: unexpected prediction type %T", v)
	}
}

package controllers

import (
	"context"
	"encoding/json"

	"boardai/boardai/services/intent"
	"boardai/boardai/types"
)

type IntentController struct {
	svc *intent.Service
}

func NewIntentController(svc *intent.Service) *IntentController {
	return &IntentController{svc: svc}
}

// GenerateShape returns the model's object untouched. Errors are
// *intent.Error carrying the public message and status.
func (c *IntentController) GenerateShape(ctx context.Context, req types.GenerateShapeRequest) (json.RawMessage, error) {
	return c.svc.Generate(ctx, req.Message)
}

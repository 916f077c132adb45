package service

import (
	"oda/mcp/internal/client"
)

// Service exposes the grocery client as named, schema-validated MCP tools.
// It is a thin dispatch table: all protocol and parsing logic lives in the
// client, all user-facing messaging decisions live with the agent calling the
// tools.
type Service struct {
	client client.OdaClient
}

func New(odaClient client.OdaClient) *Service {
	return &Service{client: odaClient}
}

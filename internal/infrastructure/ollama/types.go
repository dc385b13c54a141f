package ollama

import (
	"encoding/json"

	"github.com/aislemap/backend/internal/domain"
	"github.com/invopop/jsonschema"
)

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumCtx      int     `json:"num_ctx"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  json.RawMessage `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

type psResponse struct {
	Models []domain.BackendProcess `json:"models"`
}

// categorizationReply is the structured-output shape requested from the model.
type categorizationReply struct {
	Items []domain.CategorizationEntry `json:"items" jsonschema:"description=One entry per requested item"`
}

// ReplySchema returns the JSON schema sent as the generate "format" so the
// backend constrains its output to the categorization array.
func ReplySchema() (json.RawMessage, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := r.Reflect(&categorizationReply{})
	s.Version = ""

	if items, ok := s.Properties.Get("items"); ok && items.Items != nil {
		if aisle, ok := items.Items.Properties.Get("aisle"); ok {
			for _, a := range domain.Aisles {
				aisle.Enum = append(aisle.Enum, a)
			}
		}
	}

	return json.Marshal(s)
}

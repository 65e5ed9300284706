package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

// Models names the model used by each gateway operation.
type Models struct {
	Chat   string
	Search string
	Maps   string
	Vision string
}

// GeminiOptions selects the backend. Vertex is used when Project is set,
// the Gemini API (APIKey) otherwise.
type GeminiOptions struct {
	APIKey   string
	Project  string
	Location string
	Models   Models
}

// GeminiGateway implements domain.Gateway on top of google.golang.org/genai.
type GeminiGateway struct {
	client *genai.Client
	models Models
}

func NewGeminiGateway(ctx context.Context, opts GeminiOptions) (*GeminiGateway, error) {
	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.Project != "" {
		cc = &genai.ClientConfig{
			Project:  opts.Project,
			Location: opts.Location,
			Backend:  genai.BackendVertexAI,
		}
	} else if opts.APIKey == "" {
		return nil, errors.New("gemini: API key or GCP project is required")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiGateway{
		client: client,
		models: opts.Models,
	}, nil
}

func (g *GeminiGateway) Chat(ctx context.Context, text string, history []*domain.Message) (*domain.Reply, error) {
	contents := historyContents(history)
	contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildSystemPrompt(domain.ModeStandard), genai.RoleUser),
		ThinkingConfig:    &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}

	res, err := g.client.Models.GenerateContent(ctx, g.models.Chat, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini chat: %w", err)
	}
	return &domain.Reply{Text: res.Text()}, nil
}

func (g *GeminiGateway) SearchChat(ctx context.Context, text string) (*domain.Reply, error) {
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildSystemPrompt(domain.ModeSearch), genai.RoleUser),
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	res, err := g.client.Models.GenerateContent(ctx, g.models.Search, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini search chat: %w", err)
	}
	return &domain.Reply{Text: res.Text(), Links: groundingLinks(res)}, nil
}

func (g *GeminiGateway) MapsChat(ctx context.Context, text string, loc domain.Location) (*domain.Reply, error) {
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildSystemPrompt(domain.ModeLocation), genai.RoleUser),
		Tools:             []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}},
		ToolConfig: &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(loc.Latitude),
					Longitude: genai.Ptr(loc.Longitude),
				},
			},
		},
	}

	res, err := g.client.Models.GenerateContent(ctx, g.models.Maps, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini maps chat: %w", err)
	}
	return &domain.Reply{Text: res.Text(), Links: groundingLinks(res)}, nil
}

func (g *GeminiGateway) ClassifyLandmark(ctx context.Context, img domain.Image) (*domain.LandmarkAnalysis, error) {
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(img.Data, mimeType),
		genai.NewPartFromText(landmarkPrompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(baseSystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    landmarkSchema(),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.models.Vision, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini classify landmark: %w", err)
	}
	return parseLandmark(res.Text())
}

// historyContents maps chat history onto genai roles; assistant turns are "model".
func historyContents(history []*domain.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

// groundingLinks flattens the first candidate's grounding chunks.
// Chunks without a URI are skipped, the dashboard cannot render them.
func groundingLinks(res *genai.GenerateContentResponse) []domain.Link {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var links []domain.Link
	for _, chunk := range res.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil {
			continue
		}
		switch {
		case chunk.Web != nil && chunk.Web.URI != "":
			links = append(links, domain.Link{Title: linkTitle(chunk.Web.Title), URI: chunk.Web.URI, Source: domain.LinkWeb})
		case chunk.Maps != nil && chunk.Maps.URI != "":
			links = append(links, domain.Link{Title: linkTitle(chunk.Maps.Title), URI: chunk.Maps.URI, Source: domain.LinkMap})
		}
	}
	return links
}

func linkTitle(title string) string {
	if title == "" {
		return "Link"
	}
	return title
}

func landmarkSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":            str,
			"description":     str,
			"historicalFacts": {Type: genai.TypeArray, Items: str},
			"safetyTips":      {Type: genai.TypeArray, Items: str},
		},
		Required: []string{"name", "description", "historicalFacts", "safetyTips"},
	}
}

func parseLandmark(raw string) (*domain.LandmarkAnalysis, error) {
	if raw == "" {
		return nil, errors.New("gemini returned empty landmark analysis")
	}

	var out domain.LandmarkAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode landmark analysis: %w", err)
	}
	if out.Name == "" {
		return nil, errors.New("landmark analysis has no name")
	}
	return &out, nil
}

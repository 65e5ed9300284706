package httpadapter

import (
	"time"

	"github.com/PabloGalante/bharat-yatra/internal/app/conversation"
	"github.com/PabloGalante/bharat-yatra/internal/app/identity"
	"github.com/PabloGalante/bharat-yatra/internal/app/shell"
	"github.com/PabloGalante/bharat-yatra/internal/app/sos"
	"github.com/PabloGalante/bharat-yatra/internal/app/vision"
	"github.com/PabloGalante/bharat-yatra/internal/app/workspace"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

// ─────────────────────────────────────────────
// Requests
// ─────────────────────────────────────────────

type createSessionRequest struct {
	Title string `json:"title,omitempty"`
}

type navigateRequest struct {
	View string `json:"view"`
}

type chromeRequest struct {
	SidebarOpen *bool `json:"sidebar_open,omitempty"`
	MenuOpen    *bool `json:"menu_open,omitempty"`
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	// Denied is sent when the device refused the location query.
	Denied bool `json:"denied,omitempty"`
}

type submitRequest struct {
	Text string `json:"text"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type inputRequest struct {
	Input string `json:"input"`
}

// ─────────────────────────────────────────────
// Responses
// ─────────────────────────────────────────────

type sessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type workspaceResponse struct {
	Session sessionResponse `json:"session"`
	Shell   shellResponse   `json:"shell"`
	Chat    *chatResponse   `json:"chat,omitempty"`
	Vision  *visionResponse `json:"vision,omitempty"`
	SOS     *sosResponse    `json:"sos,omitempty"`
}

type locationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type screenResponse struct {
	View     string `json:"view"`
	Label    string `json:"label"`
	Stateful bool   `json:"stateful"`
}

type chromeResponse struct {
	SidebarOpen bool `json:"sidebar_open"`
	MenuOpen    bool `json:"menu_open"`
	SOSVisible  bool `json:"sos_visible"`
}

type shellResponse struct {
	View     string            `json:"view"`
	Screen   screenResponse    `json:"screen"`
	Chrome   chromeResponse    `json:"chrome"`
	Location *locationResponse `json:"location,omitempty"`
}

type linkResponse struct {
	Title  string `json:"title"`
	URI    string `json:"uri"`
	Source string `json:"source"`
}

type messageResponse struct {
	ID             string         `json:"id"`
	SessionID      string         `json:"session_id"`
	Role           string         `json:"role"`
	Content        string         `json:"content"`
	CreatedAt      time.Time      `json:"created_at"`
	GroundingLinks []linkResponse `json:"grounding_links,omitempty"`
}

type chatResponse struct {
	Messages    []messageResponse `json:"messages"`
	Mode        string            `json:"mode"`
	TurnCounter int               `json:"turn_counter"`
	Loading     bool              `json:"loading"`
	Error       string            `json:"error,omitempty"`
	Input       string            `json:"input"`
}

type submitResponse struct {
	Accepted bool `json:"accepted"`
	// Ignored explains a rejected submission: "blank" or "busy".
	Ignored     string           `json:"ignored,omitempty"`
	UserMessage *messageResponse `json:"user_message,omitempty"`
	Reply       *messageResponse `json:"reply,omitempty"`
	Chat        chatResponse     `json:"chat"`
}

type contactResponse struct {
	Label  string `json:"label"`
	Status string `json:"status"`
	ETA    string `json:"eta"`
}

type sosResponse struct {
	Phase            string            `json:"phase"`
	SecondsRemaining int               `json:"seconds_remaining"`
	Cancellable      bool              `json:"cancellable"`
	Location         *locationResponse `json:"location,omitempty"`
	Contacts         []contactResponse `json:"contacts,omitempty"`
}

type sosActionResponse struct {
	Applied bool        `json:"applied"`
	SOS     sosResponse `json:"sos"`
}

type landmarkResponse struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	HistoricalFacts []string `json:"historical_facts"`
	SafetyTips      []string `json:"safety_tips"`
}

type visionResponse struct {
	Phase    string            `json:"phase"`
	MIMEType string            `json:"mime_type,omitempty"`
	Result   *landmarkResponse `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}

type shareResponse struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// ─────────────────────────────────────────────
// Converters
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		ID:        string(s.ID),
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toWorkspaceResponse(sess *domain.Session, snap workspace.Snapshot) workspaceResponse {
	resp := workspaceResponse{
		Session: toSessionResponse(sess),
		Shell:   toShellResponse(snap.Shell),
	}
	if snap.Chat != nil {
		c := toChatResponse(*snap.Chat)
		resp.Chat = &c
	}
	if snap.Vision != nil {
		v := toVisionResponse(*snap.Vision)
		resp.Vision = &v
	}
	if snap.SOS != nil {
		s := toSOSResponse(*snap.SOS)
		resp.SOS = &s
	}
	return resp
}

func toLocationResponse(l *domain.Location) *locationResponse {
	if l == nil {
		return nil
	}
	return &locationResponse{Latitude: l.Latitude, Longitude: l.Longitude}
}

func toChromeResponse(c shell.Chrome) chromeResponse {
	return chromeResponse{
		SidebarOpen: c.SidebarOpen,
		MenuOpen:    c.MenuOpen,
		SOSVisible:  c.SOSVisible,
	}
}

func toShellResponse(s shell.Snapshot) shellResponse {
	return shellResponse{
		View: s.View.String(),
		Screen: screenResponse{
			View:     s.Screen.View.String(),
			Label:    s.Screen.Label,
			Stateful: s.Screen.Stateful,
		},
		Chrome:   toChromeResponse(s.Chrome),
		Location: toLocationResponse(s.Location),
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	resp := messageResponse{
		ID:        string(m.ID),
		SessionID: string(m.SessionID),
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	for _, l := range m.GroundingLinks {
		resp.GroundingLinks = append(resp.GroundingLinks, linkResponse{
			Title:  l.Title,
			URI:    l.URI,
			Source: string(l.Source),
		})
	}
	return resp
}

func toChatResponse(st conversation.State) chatResponse {
	msgs := make([]messageResponse, 0, len(st.Messages))
	for _, m := range st.Messages {
		msgs = append(msgs, toMessageResponse(m))
	}
	return chatResponse{
		Messages:    msgs,
		Mode:        string(st.Mode),
		TurnCounter: st.TurnCounter,
		Loading:     st.Loading,
		Error:       st.Error,
		Input:       st.Input,
	}
}

func toSOSResponse(s sos.Snapshot) sosResponse {
	resp := sosResponse{
		Phase:            s.Phase.String(),
		SecondsRemaining: s.SecondsRemaining,
		Cancellable:      s.Cancellable,
		Location:         toLocationResponse(s.Location),
	}
	for _, c := range s.Contacts {
		resp.Contacts = append(resp.Contacts, contactResponse{Label: c.Label, Status: c.Status, ETA: c.ETA})
	}
	return resp
}

func toVisionResponse(st vision.State) visionResponse {
	resp := visionResponse{
		Phase:    st.Phase.String(),
		MIMEType: st.MIMEType,
		Error:    st.Error,
	}
	if st.Result != nil {
		resp.Result = &landmarkResponse{
			Name:            st.Result.Name,
			Description:     st.Result.Description,
			HistoricalFacts: st.Result.HistoricalFacts,
			SafetyTips:      st.Result.SafetyTips,
		}
	}
	return resp
}

func toShareResponse(s identity.Share) shareResponse {
	return shareResponse{Title: s.Title, Text: s.Text, URL: s.URL}
}

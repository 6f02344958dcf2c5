// Package webhook はClerk Webhookの署名検証とユーザー同期を提供する。
package webhook

import "encoding/json"

// EventKind はIdPイベントの種別を表す。
type EventKind string

const (
	// EventUserCreated はユーザー作成イベント。
	EventUserCreated EventKind = "user.created"
	// EventUserUpdated はユーザー更新イベント。
	EventUserUpdated EventKind = "user.updated"
)

// IdentityEvent は検証済みのIdPイベントを表す。
// 検証後は不変として扱い、1回だけ消費される。
// 既知でないKindのイベントは検証は通すがディスパッチしない。
type IdentityEvent struct {
	Kind           EventKind
	ClerkID        string
	EmailAddresses []string
	FirstName      string
	LastName       string
	ImageURL       string
}

// clerkEnvelope はClerkが送信するイベントJSONの外形。
type clerkEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// clerkUserData はuser.created / user.updated イベントのペイロード。
type clerkUserData struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// parseEvent は検証済みペイロードをIdentityEventに変換する。
func parseEvent(payload []byte) (*IdentityEvent, error) {
	var env clerkEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, err
	}

	evt := &IdentityEvent{Kind: EventKind(env.Type)}

	var data clerkUserData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, err
		}
	}

	evt.ClerkID = data.ID
	evt.FirstName = data.FirstName
	evt.LastName = data.LastName
	evt.ImageURL = data.ImageURL
	for _, addr := range data.EmailAddresses {
		evt.EmailAddresses = append(evt.EmailAddresses, addr.EmailAddress)
	}

	return evt, nil
}

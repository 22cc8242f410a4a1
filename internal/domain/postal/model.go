package postal

import "encoding/json"

// DefaultWebmakerURL is used for links in templates when Options.WebmakerURL is empty.
const DefaultWebmakerURL = "https://webmaker.org"

// Charset is attached to every subject and body part handed to a transport.
const Charset = "UTF-8"

// Options configures a Dispatcher. It is copied at construction and never mutated.
type Options struct {
	// Key and Secret are the transport credential pair. Both are required.
	Key    string
	Secret string

	// WebmakerURL is the base URL templates link back to.
	WebmakerURL string
}

// Kind identifies which notification an email belongs to.
type Kind string

const (
	KindCreateEvent  Kind = "create_event"
	KindBadgeAwarded Kind = "badge_awarded"
	KindWelcome      Kind = "welcome"
	KindMofoStaff    Kind = "mofo_staff"
)

// CreateEventEmail is sent to a user after they create an event.
type CreateEventEmail struct {
	To       string `json:"to" binding:"required,email"`
	FullName string `json:"fullName"`
	Locale   string `json:"locale"`
}

// User is the badge recipient's account, when known.
type User struct {
	Username string `json:"username"`
}

// Badge describes an awarded badge. Slug selects the template variant.
// Fields the struct does not name are kept in Extra so templates can reach
// them as .badge.Extra.<key>.
type Badge struct {
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Strapline   string         `json:"strapline"`
	Description string         `json:"description"`
	ImageURL    string         `json:"imageUrl"`
	CriteriaURL string         `json:"criteriaUrl"`
	Extra       map[string]any `json:"-"`
}

var badgeFields = []string{"slug", "name", "strapline", "description", "imageUrl", "criteriaUrl"}

// UnmarshalJSON decodes the named fields and collects the rest into Extra.
func (b *Badge) UnmarshalJSON(data []byte) error {
	type plain Badge
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, f := range badgeFields {
		delete(all, f)
	}

	*b = Badge(known)
	if len(all) > 0 {
		b.Extra = all
	}
	return nil
}

// MarshalJSON writes Extra alongside the named fields.
func (b Badge) MarshalJSON() ([]byte, error) {
	type plain Badge
	out := make(map[string]any, len(b.Extra)+len(badgeFields))
	for k, v := range b.Extra {
		out[k] = v
	}

	raw, err := json.Marshal(plain(b))
	if err != nil {
		return nil, err
	}
	var named map[string]any
	if err := json.Unmarshal(raw, &named); err != nil {
		return nil, err
	}
	for k, v := range named {
		out[k] = v
	}
	return json.Marshal(out)
}

// BadgeAwardedEmail is sent when a badge is issued to a user.
type BadgeAwardedEmail struct {
	To      string `json:"to" binding:"required,email"`
	User    *User  `json:"user"`
	Badge   Badge  `json:"badge"`
	Comment string `json:"comment"`
	Locale  string `json:"locale"`
}

// WelcomeEmail is sent to new accounts.
type WelcomeEmail struct {
	To       string `json:"to" binding:"required,email"`
	FullName string `json:"fullName"`
	Locale   string `json:"locale"`
}

// MofoStaffEmail tells foundation staff that a new event was created.
type MofoStaffEmail struct {
	To       string `json:"to" binding:"required,email"`
	Email    string `json:"email"`
	Username string `json:"username"`
	EventID  string `json:"eventId"`
}

// Prepared is the output of the prepare step: inlined HTML and the text derived from it.
type Prepared struct {
	HTML string
	Text string
}

// Content is a piece of message data with its character set.
type Content struct {
	Data    string
	Charset string
}

// Body holds both representations of a message.
type Body struct {
	Text Content
	HTML Content
}

// Message is the subject and body of an outbound email.
type Message struct {
	Subject Content
	Body    Body
}

// Destination lists recipients. The dispatcher always sets exactly one.
type Destination struct {
	ToAddresses []string
}

// SendEmailInput is the structured request handed to a Transport.
type SendEmailInput struct {
	Source      string
	Destination Destination
	Message     Message
}

// NewSendEmailInput builds a single-recipient request from one prepared render.
func NewSendEmailInput(source, to, subject string, p Prepared) *SendEmailInput {
	return &SendEmailInput{
		Source: source,
		Destination: Destination{
			ToAddresses: []string{to},
		},
		Message: Message{
			Subject: Content{Data: subject, Charset: Charset},
			Body: Body{
				Text: Content{Data: p.Text, Charset: Charset},
				HTML: Content{Data: p.HTML, Charset: Charset},
			},
		},
	}
}

// SendEmailOutput is what a Transport reports for an accepted message.
type SendEmailOutput struct {
	MessageID string `json:"message_id"`
	Provider  string `json:"provider"`
}

// SendResponse is the API response payload after an email has been handed to the transport.
type SendResponse struct {
	ID        string `json:"id,omitempty"`
	Kind      Kind   `json:"kind"`
	Locale    string `json:"locale,omitempty"`
	MessageID string `json:"message_id"`
	Provider  string `json:"provider"`
}

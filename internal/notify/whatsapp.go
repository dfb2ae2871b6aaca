package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/riowonder/SoloManager-Backend/internal/logger"
	"github.com/riowonder/SoloManager-Backend/internal/metrics"
	"github.com/riowonder/SoloManager-Backend/internal/plan"
)

var (
	ErrNoPhoneNumber  = errors.New("member has no phone number on file")
	ErrDeliveryFailed = errors.New("whatsapp delivery failed")
)

const (
	templateExpiry   = "sub_exp"
	templateReminder = "expiry_reminder"
)

// Gateway dispatches templated membership notices. The sweep treats every
// returned error as a per-subscription failure, never a batch one.
type Gateway interface {
	SendExpiryNotice(ctx context.Context, memberID string, p plan.Plan, extraDays int, expiryDate time.Time, gymID string) error
	SendReminderNotice(ctx context.Context, memberID string, p plan.Plan, extraDays int, expiryDate time.Time, gymID string) error
}

// MemberDirectory resolves a member's display name and phone number.
type MemberDirectory interface {
	ContactByID(ctx context.Context, gymID, memberID string) (name, phone string, err error)
}

// GymDirectory resolves a tenant's gym name for the message body.
type GymDirectory interface {
	GymNameByID(ctx context.Context, gymID string) (string, error)
}

// WhatsAppGateway talks to the WhatsApp Cloud API (graph.facebook.com)
// using pre-approved message templates.
type WhatsAppGateway struct {
	client      *resty.Client
	phoneID     string
	countryCode string
	members     MemberDirectory
	gyms        GymDirectory
}

func NewWhatsAppGateway(apiBase, token, phoneID, countryCode string, members MemberDirectory, gyms GymDirectory) *WhatsAppGateway {
	client := resty.New().
		SetBaseURL(apiBase).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &WhatsAppGateway{
		client:      client,
		phoneID:     phoneID,
		countryCode: countryCode,
		members:     members,
		gyms:        gyms,
	}
}

type templatePayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         template `json:"template"`
}

type template struct {
	Name       string      `json:"name"`
	Language   language    `json:"language"`
	Components []component `json:"components"`
}

type language struct {
	Code string `json:"code"`
}

type component struct {
	Type       string      `json:"type"`
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (g *WhatsAppGateway) SendExpiryNotice(ctx context.Context, memberID string, p plan.Plan, extraDays int, expiryDate time.Time, gymID string) error {
	name, phone, gymName, err := g.resolve(ctx, gymID, memberID)
	if err != nil {
		metrics.RecordNotification("expiry", "failed")
		return err
	}

	// The sub_exp template body: member, plan, gym, date, then the gym
	// name twice more for the sign-off lines.
	params := []parameter{
		textParam(name),
		textParam(plan.Label(p, extraDays)),
		textParam(gymName),
		textParam(expiryDate.Format("02/01/2006")),
		textParam(gymName),
		textParam(gymName),
	}

	if err := g.send(ctx, phone, templateExpiry, params); err != nil {
		metrics.RecordNotification("expiry", "failed")
		return err
	}
	metrics.RecordNotification("expiry", "sent")
	logger.Infof("Expiry notice sent to member %s", memberID)
	return nil
}

func (g *WhatsAppGateway) SendReminderNotice(ctx context.Context, memberID string, p plan.Plan, extraDays int, expiryDate time.Time, gymID string) error {
	name, phone, gymName, err := g.resolve(ctx, gymID, memberID)
	if err != nil {
		metrics.RecordNotification("reminder", "failed")
		return err
	}

	params := []parameter{
		textParam(name),
		textParam(plan.Label(p, extraDays)),
		textParam(gymName),
		textParam(expiryDate.Format("02/01/2006")),
		textParam(gymName),
	}

	if err := g.send(ctx, phone, templateReminder, params); err != nil {
		metrics.RecordNotification("reminder", "failed")
		return err
	}
	metrics.RecordNotification("reminder", "sent")
	logger.Infof("Reminder notice sent to member %s", memberID)
	return nil
}

func (g *WhatsAppGateway) resolve(ctx context.Context, gymID, memberID string) (name, phone, gymName string, err error) {
	name, phone, err = g.members.ContactByID(ctx, gymID, memberID)
	if err != nil {
		return "", "", "", fmt.Errorf("resolve member %s: %w", memberID, err)
	}
	if strings.TrimSpace(phone) == "" {
		return "", "", "", fmt.Errorf("member %s: %w", memberID, ErrNoPhoneNumber)
	}
	if !strings.HasPrefix(phone, "+") {
		phone = g.countryCode + phone
	}

	gymName, err = g.gyms.GymNameByID(ctx, gymID)
	if err != nil {
		logger.Warnf("Failed to resolve gym name for %s, using fallback: %v", gymID, err)
		gymName = "Your Gym"
	}
	return name, phone, gymName, nil
}

func (g *WhatsAppGateway) send(ctx context.Context, phone, templateName string, params []parameter) error {
	payload := templatePayload{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "template",
		Template: template{
			Name:     templateName,
			Language: language{Code: "en"},
			Components: []component{
				{Type: "body", Parameters: params},
			},
		},
	}

	var result apiResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/%s/messages", g.phoneID))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if resp.IsError() {
		if result.Error != nil {
			return fmt.Errorf("%w: %s (code %d)", ErrDeliveryFailed, result.Error.Message, result.Error.Code)
		}
		return fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode())
	}
	if len(result.Messages) == 0 {
		return fmt.Errorf("%w: no message id in response", ErrDeliveryFailed)
	}
	return nil
}

func textParam(text string) parameter {
	return parameter{Type: "text", Text: text}
}

// Package telegram is a thin client for the Bot API methods the bot
// actually uses: sendMessage, answerCallbackQuery and setWebhook.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultAPIBase = "https://api.telegram.org/bot"

// Parse modes.
const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

type Client struct {
	http *resty.Client
}

// NewClient builds a client for the given bot token. apiBase is the
// Bot API prefix without the token; empty selects the public API.
func NewClient(apiBase, token string) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	client := resty.New().
		SetBaseURL(apiBase + token).
		SetTimeout(30 * time.Second)
	return &Client{http: client}
}

type Message struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
	ReplyMarkup           any    `json:"reply_markup,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) SendMessage(ctx context.Context, msg Message) error {
	return c.call(ctx, "/sendMessage", msg)
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error {
	body := map[string]string{"callback_query_id": callbackQueryID}
	if text != "" {
		body["text"] = text
	}
	return c.call(ctx, "/answerCallbackQuery", body)
}

// SetWebhook registers url as the bot's webhook. A non-empty secret is
// echoed back by the platform in X-Telegram-Bot-Api-Secret-Token on
// every delivery.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	body := map[string]string{"url": url}
	if secret != "" {
		body["secret_token"] = secret
	}
	return c.call(ctx, "/setWebhook", body)
}

func (c *Client) call(ctx context.Context, method string, body any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(method)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	var out apiResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	if !out.OK {
		return fmt.Errorf("telegram %s: %s", method, out.Description)
	}
	return nil
}

// htmlEscaper covers the characters HTML parse mode treats as markup.
// Quotes are deliberately left alone to keep codes byte-identical to
// what clients expect to copy.
var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML neutralizes markup-significant characters in
// dynamically-sourced text before it is interpolated into an
// HTML-mode message.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

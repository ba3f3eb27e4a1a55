// Package recipeai — HTTP-клиент к внешнему Recipe AI серверу.
// Клиент деградирует мягко: любая сетевая или форматная проблема
// превращается в текст для пользователя, а не в ошибку бота.
package recipeai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"airdrop-bot/internal/common"
)

// Client ходит в Recipe AI. Потокобезопасен.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	Spiciness string `json:"spiciness"`
	Saltiness string `json:"saltiness"`
}

type chatResponse struct {
	MarkdownMessage string        `json:"markdown_message"`
	Message         string        `json:"message"`
	Suggestions     []interface{} `json:"suggestions"`
}

// Ask отправляет реплику пользователя и возвращает текст ответа.
// Ошибка возвращается только на сбой маршала/контекста; всё остальное
// упаковано в человекочитаемый текст.
func (c *Client) Ask(ctx context.Context, userID int64, text string) string {
	payload, err := json.Marshal(chatRequest{
		Message:   text,
		UserID:    fmt.Sprintf("%d", userID),
		Spiciness: "normal",
		Saltiness: "normal",
	})
	if err != nil {
		return fmt.Sprintf("Unexpected error: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return fmt.Sprintf("Unexpected error: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "Recipe AI server is not reachable. Please check that the server is running."
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Sprintf("Unexpected error: %v", err)
	}

	// Сервер иногда отвечает не-JSON текстом, это не повод падать.
	ctype := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ctype, "application/json") {
		if resp.StatusCode >= 400 {
			return fmt.Sprintf("Recipe AI error: %d\n%s", resp.StatusCode, common.Truncate(string(body), 300))
		}
		return string(body)
	}

	if resp.StatusCode >= 400 {
		return fmt.Sprintf("Recipe AI error: %d\n%s", resp.StatusCode, common.Truncate(string(body), 300))
	}

	var data chatResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return keysSummary(body)
	}

	answer := data.MarkdownMessage
	if answer == "" {
		answer = data.Message
	}
	if answer == "" {
		return keysSummary(body)
	}

	if len(data.Suggestions) > 0 {
		suggestions := data.Suggestions
		if len(suggestions) > 5 {
			suggestions = suggestions[:5]
		}
		var b strings.Builder
		b.WriteString(answer)
		b.WriteString("\n\nSuggestions:\n- ")
		for i, s := range suggestions {
			if i > 0 {
				b.WriteString("\n- ")
			}
			fmt.Fprintf(&b, "%v", s)
		}
		answer = b.String()
	}

	return answer
}

// keysSummary описывает неожиданный формат ответа, не вываливая тело:
// в нём может быть нелатинский контент, бесполезный в диагностике.
func keysSummary(body []byte) string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "Recipe AI returned an unexpected response format. keys=non-dict"
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
		if len(keys) == 20 {
			break
		}
	}

	return fmt.Sprintf("Recipe AI returned an unexpected response format. keys=%s", strings.Join(keys, ", "))
}

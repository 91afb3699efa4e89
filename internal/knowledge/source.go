package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	docsAPIBase = "https://docs.googleapis.com/v1/documents"

	// Heading of the section collecting questions the bot could not answer.
	activeQuestionsHeading = "## 7. Активные вопросы"
)

// Fetcher retrieves the knowledge document as plain text.
type Fetcher interface {
	FetchDocument(ctx context.Context) (string, error)
}

// Appender records a question the bot failed to answer so the shop staff can
// extend the knowledge base.
type Appender interface {
	AddUnansweredQuestion(ctx context.Context, question string, userID int64, botResponse, responseType string) error
}

// DocsClient reads and updates a Google Doc over the Docs REST API.
// Reads authenticate with the API key; writes require the OAuth access token.
type DocsClient struct {
	httpClient  *http.Client
	documentID  string
	apiKey      string
	accessToken string
}

// NewDocsClient creates a client for the given document.
func NewDocsClient(documentID, apiKey, accessToken string, timeout time.Duration) *DocsClient {
	return &DocsClient{
		httpClient:  &http.Client{Timeout: timeout},
		documentID:  documentID,
		apiKey:      apiKey,
		accessToken: accessToken,
	}
}

// docBody mirrors the parts of the Docs API response we read. Paragraph text
// arrives split across textRun elements; startIndex positions support edits.
type docBody struct {
	Body struct {
		Content []struct {
			StartIndex int `json:"startIndex"`
			Paragraph  *struct {
				Elements []struct {
					TextRun *struct {
						Content string `json:"content"`
					} `json:"textRun"`
				} `json:"elements"`
			} `json:"paragraph"`
		} `json:"content"`
	} `json:"body"`
}

// FetchDocument downloads the document and flattens it to plain text.
func (c *DocsClient) FetchDocument(ctx context.Context) (string, error) {
	doc, err := c.getDocument(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, element := range doc.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		for _, part := range element.Paragraph.Elements {
			if part.TextRun != nil {
				sb.WriteString(part.TextRun.Content)
			}
		}
	}
	return sb.String(), nil
}

// AddUnansweredQuestion inserts a training note after the active questions
// heading. When the heading is missing the note goes to the document start.
func (c *DocsClient) AddUnansweredQuestion(ctx context.Context, question string, userID int64, botResponse, responseType string) error {
	doc, err := c.getDocument(ctx)
	if err != nil {
		return err
	}

	insertAt := 1
	for _, element := range doc.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		var text strings.Builder
		for _, part := range element.Paragraph.Elements {
			if part.TextRun != nil {
				text.WriteString(part.TextRun.Content)
			}
		}
		if strings.HasPrefix(strings.TrimSpace(text.String()), activeQuestionsHeading) {
			insertAt = element.StartIndex + len([]rune(activeQuestionsHeading)) + 1
			break
		}
	}

	if botResponse == "" {
		botResponse = "Нет ответа"
	}
	note := fmt.Sprintf(`

[Новый вопрос для обучения]
Дата: %s
От пользователя: %d
Тип: %s

Вопрос:
%s

Ответ бота:
%s

---`, time.Now().Format("02.01.2006 15:04"), userID, responseType, question, botResponse)

	payload := map[string]any{
		"requests": []map[string]any{
			{
				"insertText": map[string]any{
					"location": map[string]any{"index": insertAt},
					"text":     note,
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode batchUpdate request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:batchUpdate", docsAPIBase, c.documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create batchUpdate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("batchUpdate request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("batchUpdate returned status %d: %s", resp.StatusCode, snippet)
	}
	return nil
}

func (c *DocsClient) getDocument(ctx context.Context) (*docBody, error) {
	url := fmt.Sprintf("%s/%s", docsAPIBase, c.documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create document request: %w", err)
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	} else {
		q := req.URL.Query()
		q.Set("key", c.apiKey)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("document request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("document request returned status %d: %s", resp.StatusCode, snippet)
	}

	doc := &docBody{}
	if err := json.NewDecoder(resp.Body).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode document response: %w", err)
	}
	return doc, nil
}

package api

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPConfig configures an HTTPClient.
type HTTPConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// HTTPClient implements Client against a live server using resty.
type HTTPClient struct {
	rc *resty.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the server at cfg.BaseURL.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &HTTPClient{rc: rc}
}

func (c *HTTPClient) request(ctx context.Context) *resty.Request {
	return c.rc.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", RequestIDFrom(ctx))
}

// check turns a transport error or non-2xx response into a typed error.
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if !resp.IsSuccess() {
		return &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode(),
			Body:       truncate(strings.TrimSpace(resp.String()), 200),
		}
	}
	return nil
}

func (c *HTTPClient) LoadDocument(ctx context.Context, sid string) (*Document, error) {
	resp, err := c.request(ctx).
		SetPathParam("sid", sid).
		SetHeader("Accept", "text/html").
		Get("/session/{sid}")
	if err := check(OpLoad, resp, err); err != nil {
		return nil, err
	}

	doc, err := ParseDocument(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, &InvalidResponseError{Op: OpLoad, Err: err}
	}
	if doc.SessionID == "" {
		doc.SessionID = sid
	}
	return doc, nil
}

func (c *HTTPClient) ToggleCovered(ctx context.Context, sid, blockID string) error {
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"sid": sid, "bid": blockID}).
		Post("/session/{sid}/toggle-covered/{bid}")
	return check(OpToggleCovered, resp, err)
}

func (c *HTTPClient) GenerateMCQs(ctx context.Context, sid, blockID string) ([]MCQItem, error) {
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"sid": sid, "bid": blockID}).
		SetHeader("Accept", "application/json").
		Post("/session/{sid}/mcq/{bid}")
	if err := check(OpGenerate, resp, err); err != nil {
		return nil, err
	}
	return DecodeMCQs(resp.Body())
}

func (c *HTTPClient) MarkAsked(ctx context.Context, sid, blockID string, item MCQItem) error {
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"sid": sid, "bid": blockID}).
		SetHeader("Content-Type", "application/json").
		SetBody(item).
		Post("/session/{sid}/mcq_asked/{bid}")
	return check(OpMarkAsked, resp, err)
}

func (c *HTTPClient) PinNote(ctx context.Context, sid, text string) error {
	resp, err := c.request(ctx).
		SetPathParam("sid", sid).
		SetFormData(map[string]string{"text": text}).
		Post("/session/{sid}/pin")
	return check(OpPin, resp, err)
}

func (c *HTTPClient) UpdateDuration(ctx context.Context, sid string, minutes int) error {
	resp, err := c.request(ctx).
		SetPathParam("sid", sid).
		SetFormData(map[string]string{"minutes": strconv.Itoa(minutes)}).
		Post("/session/{sid}/duration")
	return check(OpDuration, resp, err)
}

func (c *HTTPClient) Export(ctx context.Context, sid string) (string, error) {
	resp, err := c.request(ctx).
		SetPathParam("sid", sid).
		SetHeader("Accept", "text/markdown").
		Get("/session/{sid}/export")
	if err := check(OpExport, resp, err); err != nil {
		return "", err
	}
	return resp.String(), nil
}

func (c *HTTPClient) DeleteSession(ctx context.Context, sid string) error {
	resp, err := c.request(ctx).
		SetPathParam("sid", sid).
		Post("/session/{sid}/delete")
	return check(OpDelete, resp, err)
}

// StartSession uploads the notes and follows the server's redirect to the new
// session page; the session id is the last segment of the final URL.
func (c *HTTPClient) StartSession(ctx context.Context, in StartInput) (string, error) {
	if len(in.Notes) == 0 {
		return "", fmt.Errorf("%s: at least one notes file is required", OpStart)
	}

	req := c.request(ctx).SetMultipartFormData(map[string]string{
		"session_name": in.Name,
		"minutes":      strconv.Itoa(in.Minutes),
	})

	var files []*os.File
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	attach := func(param, p string) error {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("%s: %w", OpStart, err)
		}
		files = append(files, f)
		req.SetMultipartFields(&resty.MultipartField{
			Param:       param,
			FileName:    filepath.Base(p),
			ContentType: contentTypeFor(p),
			Reader:      f,
		})
		return nil
	}

	for _, p := range in.Notes {
		if err := attach("notes", p); err != nil {
			return "", err
		}
	}
	if in.Syllabus != "" {
		if err := attach("syllabus", in.Syllabus); err != nil {
			return "", err
		}
	}
	if in.QuestionBank != "" {
		if err := attach("question_bank", in.QuestionBank); err != nil {
			return "", err
		}
	}

	resp, err := req.Post("/start")
	if err := check(OpStart, resp, err); err != nil {
		return "", err
	}

	final := resp.RawResponse.Request.URL.Path
	dir, sid := path.Split(strings.TrimRight(final, "/"))
	if !strings.HasSuffix(dir, "/session/") || sid == "" {
		return "", &InvalidResponseError{
			Op:  OpStart,
			Err: fmt.Errorf("expected redirect to /session/{id}, ended at %q", final),
		}
	}
	return sid, nil
}

func contentTypeFor(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".md", ".markdown":
		return "text/markdown"
	}
	if t := mime.TypeByExtension(filepath.Ext(p)); t != "" {
		return t
	}
	return "application/octet-stream"
}

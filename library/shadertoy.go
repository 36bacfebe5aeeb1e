package library

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	shadertoyURL = "https://www.shadertoy.com"
	userAgent    = "goshadervj"
)

type shadertoyResponse struct {
	Shader *shadertoyShader `json:"Shader"`
	Error  string           `json:"Error,omitempty"`
}

type shadertoyShader struct {
	Info       shaderInfo   `json:"info"`
	RenderPass []renderPass `json:"renderpass"`
}

type shaderInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type renderPass struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Shadertoy is a program fetched from shadertoy.com. Only the image pass
// and the common code are kept; buffer passes and channel inputs have no
// place in a single-pass scene.
type Shadertoy struct {
	ID     string
	Title  string
	Source string
}

// ShadertoyClient downloads programs from shadertoy.com, caching the
// responses on disk.
type ShadertoyClient struct {
	BaseURL  string
	APIKey   string
	CacheDir string // no caching when empty
	HTTP     *http.Client
}

// NewShadertoyClient returns a client for the public site caching under
// the user's cache directory.
func NewShadertoyClient(apiKey string) *ShadertoyClient {
	dir, err := DefaultCacheDir()
	if err != nil {
		log.Warn("shadertoy cache disabled", "err", err)
	}
	return &ShadertoyClient{BaseURL: shadertoyURL, APIKey: apiKey, CacheDir: dir}
}

// DefaultCacheDir is the OS-specific cache directory for fetched shaders.
func DefaultCacheDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			return "", fmt.Errorf("LOCALAPPDATA environment variable not set")
		}
	case "darwin":
		home := os.Getenv("HOME")
		if home == "" {
			return "", fmt.Errorf("HOME environment variable not set")
		}
		base = filepath.Join(home, "Library", "Caches")
	default:
		base = os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home := os.Getenv("HOME")
			if home == "" {
				return "", fmt.Errorf("HOME environment variable not set")
			}
			base = filepath.Join(home, ".cache")
		}
	}
	return filepath.Join(base, "shadertoy", "shaders"), nil
}

// ShaderID extracts the shader id from an id or a shadertoy.com URL.
func ShaderID(idOrURL string) string {
	id := strings.TrimSuffix(strings.TrimSpace(idOrURL), "/")
	if strings.Contains(id, "/") {
		id = id[strings.LastIndex(id, "/")+1:]
	}
	return id
}

// Fetch returns the program for idOrURL, from the cache when present.
// Shaders the API refuses (not published for API use) are retried through
// the site's own endpoint.
func (c *ShadertoyClient) Fetch(ctx context.Context, idOrURL string) (*Shadertoy, error) {
	id := ShaderID(idOrURL)
	if id == "" {
		return nil, fmt.Errorf("invalid shader id %q", idOrURL)
	}

	if resp, ok := c.readCache(id); ok {
		return toShadertoy(id, resp)
	}

	resp, err := c.fetchAPI(ctx, id)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		log.Warn("shadertoy API refused shader, trying site endpoint", "id", id, "error", resp.Error)
		resp, err = c.fetchRaw(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	if resp.Shader == nil {
		return nil, fmt.Errorf("invalid JSON response for %s: 'Shader' key is missing", id)
	}
	s, err := toShadertoy(id, resp)
	if err != nil {
		return nil, err
	}
	c.writeCache(id, resp)
	return s, nil
}

// FetchInto fetches idOrURL and adds it to lib under its id.
func (c *ShadertoyClient) FetchInto(ctx context.Context, lib *Library, idOrURL string) (string, error) {
	s, err := c.Fetch(ctx, idOrURL)
	if err != nil {
		return "", err
	}
	if lib.Add(s.ID, s.Source) {
		log.Info("loaded shadertoy shader", "id", s.ID, "title", s.Title)
	}
	return s.ID, nil
}

func (c *ShadertoyClient) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *ShadertoyClient) fetchAPI(ctx context.Context, id string) (*shadertoyResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("a Shadertoy API key is required, see https://www.shadertoy.com/howto#q2")
	}
	q := url.Values{}
	q.Set("key", c.APIKey)
	apiURL := fmt.Sprintf("%s/api/v1/shaders/%s?%s", c.BaseURL, url.PathEscape(id), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load shader %s: %w", id, err)
	}
	var resp shadertoyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode shader JSON: %w", err)
	}
	return &resp, nil
}

func (c *ShadertoyClient) fetchRaw(ctx context.Context, id string) (*shadertoyResponse, error) {
	payload, err := json.Marshal(map[string][]string{"shaders": {id}})
	if err != nil {
		return nil, err
	}
	form := url.Values{}
	form.Set("s", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/shadertoy", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Origin", shadertoyURL)
	req.Header.Set("Referer", shadertoyURL+"/browse")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch raw shader data for %s: %w", id, err)
	}
	var shaders []shadertoyShader
	if err := json.Unmarshal(body, &shaders); err != nil {
		return nil, fmt.Errorf("failed to decode raw shader JSON: %w", err)
	}
	if len(shaders) == 0 {
		return nil, fmt.Errorf("raw shader response is empty for %s", id)
	}
	return &shadertoyResponse{Shader: &shaders[0]}, nil
}

func (c *ShadertoyClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad response status: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func (c *ShadertoyClient) cachePath(id string) string {
	return filepath.Join(c.CacheDir, id+".json")
}

func (c *ShadertoyClient) readCache(id string) (*shadertoyResponse, bool) {
	if c.CacheDir == "" {
		return nil, false
	}
	data, err := os.ReadFile(c.cachePath(id))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("failed to read cached shader", "id", id, "err", err)
		}
		return nil, false
	}
	var resp shadertoyResponse
	if err := json.Unmarshal(data, &resp); err != nil || resp.Shader == nil {
		log.Warn("ignoring invalid cached shader", "id", id)
		return nil, false
	}
	return &resp, true
}

func (c *ShadertoyClient) writeCache(id string, resp *shadertoyResponse) {
	if c.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(c.CacheDir, 0755); err != nil {
		log.Warn("failed to create cache directory", "dir", c.CacheDir, "err", err)
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := os.WriteFile(c.cachePath(id), data, 0644); err != nil {
		log.Warn("failed to cache shader", "id", id, "err", err)
		return
	}
	log.Debugf("shader %s cached at %s", id, c.cachePath(id))
}

func toShadertoy(id string, resp *shadertoyResponse) (*Shadertoy, error) {
	var image, common string
	for _, pass := range resp.Shader.RenderPass {
		switch pass.Type {
		case "image":
			image = pass.Code
		case "common":
			common = pass.Code
		default:
			log.Warnf("shader %s: ignoring %s pass %q", id, pass.Type, pass.Name)
		}
	}
	if image == "" {
		return nil, fmt.Errorf("shader %s has no image pass", id)
	}
	src := image
	if common != "" {
		src = common + "\n" + image
	}
	info := resp.Shader.Info
	return &Shadertoy{
		ID:     id,
		Title:  fmt.Sprintf(`"%s" by %s`, info.Name, info.Username),
		Source: src,
	}, nil
}

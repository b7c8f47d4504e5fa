package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2/clientcredentials"

	"sheetload/internal/errors"
	"sheetload/ports"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// Config holds the Azure AD application and SharePoint site the fetcher
// talks to.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	SiteID       string
	// DriveName is the document library to resolve within the site.
	// Defaults to "Documents".
	DriveName string
}

// Client fetches document bytes from a SharePoint document library through
// the Microsoft Graph API. The drive is resolved once and cached for the
// lifetime of the client, which matches one run invocation.
type Client struct {
	cfg      Config
	http     *http.Client
	download *http.Client
	baseURL  string
	driveID  string
}

// NewClient creates a Graph client authenticating with the OAuth2 client
// credentials flow against Azure AD.
func NewClient(ctx context.Context, cfg Config) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}
	return &Client{
		cfg:      cfg,
		http:     cc.Client(ctx),
		download: http.DefaultClient,
		baseURL:  defaultBaseURL,
	}
}

// Fetch downloads one file's raw bytes by its drive-relative path
func (c *Client) Fetch(ctx context.Context, remotePath string) ([]byte, error) {
	if err := c.ensureDrive(ctx); err != nil {
		return nil, errors.FetchFailure(remotePath, err)
	}

	metaURL := fmt.Sprintf("%s/sites/%s/drives/%s/root:/%s",
		c.baseURL, c.cfg.SiteID, c.driveID, escapePath(remotePath))

	var meta struct {
		Name        string `json:"name"`
		Size        int64  `json:"size"`
		DownloadURL string `json:"@microsoft.graph.downloadUrl"`
	}
	if err := c.getJSON(ctx, metaURL, &meta); err != nil {
		return nil, errors.FetchFailure(remotePath, err)
	}
	if meta.DownloadURL == "" {
		return nil, errors.FetchFailure(remotePath, fmt.Errorf("no download URL in file metadata"))
	}

	// The download URL is pre-authenticated, so it goes through the plain
	// client rather than the token-bearing one.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, meta.DownloadURL, nil)
	if err != nil {
		return nil, errors.FetchFailure(remotePath, err)
	}
	resp, err := c.download.Do(req)
	if err != nil {
		return nil, errors.FetchFailure(remotePath, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.FetchFailure(remotePath, fmt.Errorf("download returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.FetchFailure(remotePath, err)
	}
	log.Printf("[graph] downloaded %s (%d bytes)", remotePath, len(data))
	return data, nil
}

// ListFolder enumerates one folder's children. Used by the preflight check
// to verify configured files exist before a run.
func (c *Client) ListFolder(ctx context.Context, folderPath string) ([]ports.FolderEntry, error) {
	if err := c.ensureDrive(ctx); err != nil {
		return nil, err
	}

	listURL := fmt.Sprintf("%s/sites/%s/drives/%s/root:/%s:/children",
		c.baseURL, c.cfg.SiteID, c.driveID, escapePath(folderPath))

	var listing struct {
		Value []struct {
			Name string `json:"name"`
			Size int64  `json:"size"`
		} `json:"value"`
	}
	if err := c.getJSON(ctx, listURL, &listing); err != nil {
		return nil, errors.Wrapf(err, "failed to list folder %q", folderPath)
	}

	entries := make([]ports.FolderEntry, 0, len(listing.Value))
	for _, item := range listing.Value {
		entries = append(entries, ports.FolderEntry{Name: item.Name, Size: item.Size})
	}
	return entries, nil
}

// ensureDrive resolves the configured document library's drive ID once
func (c *Client) ensureDrive(ctx context.Context) error {
	if c.driveID != "" {
		return nil
	}

	driveName := c.cfg.DriveName
	if driveName == "" {
		driveName = "Documents"
	}

	var drives struct {
		Value []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"value"`
	}
	drivesURL := fmt.Sprintf("%s/sites/%s/drives", c.baseURL, c.cfg.SiteID)
	if err := c.getJSON(ctx, drivesURL, &drives); err != nil {
		return fmt.Errorf("failed to list drives: %w", err)
	}

	for _, d := range drives.Value {
		if d.Name == driveName {
			c.driveID = d.ID
			log.Printf("[graph] resolved drive %q: %s", driveName, d.ID)
			return nil
		}
	}
	return fmt.Errorf("drive %q not found on site %s", driveName, c.cfg.SiteID)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("graph returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// escapePath escapes each path segment while keeping the separators
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

var (
	_ ports.Fetcher      = (*Client)(nil)
	_ ports.FolderLister = (*Client)(nil)
)

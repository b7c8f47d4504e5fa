package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetload/internal/errors"
)

// newGraphServer fakes the two Graph endpoints the client touches plus the
// pre-authenticated download URL.
func newGraphServer(t *testing.T, fileBytes []byte) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// r.URL.Path arrives unescaped, so the sheet paths keep their spaces
		switch r.URL.Path {
		case "/sites/site-1/drives":
			fmt.Fprint(w, `{"value":[{"id":"drive-1","name":"Documents"},{"id":"drive-2","name":"Archive"}]}`)
		case "/sites/site-1/drives/drive-1/root:/General/BI Import/BI Dimensions.xlsx":
			fmt.Fprintf(w, `{"name":"BI Dimensions.xlsx","size":%d,"@microsoft.graph.downloadUrl":"%s/download/dimensions"}`,
				len(fileBytes), srv.URL)
		case "/download/dimensions":
			assert.Empty(t, r.Header.Get("Authorization"), "download URL must not carry a bearer token")
			w.Write(fileBytes)
		case "/sites/site-1/drives/drive-1/root:/General/BI Import:/children":
			fmt.Fprint(w, `{"value":[{"name":"BI Dimensions.xlsx","size":1234},{"name":"BI At Scale Import.xlsx","size":5678}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func testClient(srv *httptest.Server) *Client {
	return &Client{
		cfg:      Config{SiteID: "site-1"},
		http:     srv.Client(),
		download: srv.Client(),
		baseURL:  srv.URL,
	}
}

func TestFetchResolvesDriveAndDownloads(t *testing.T) {
	payload := []byte("workbook bytes")
	srv := newGraphServer(t, payload)
	c := testClient(srv)

	data, err := c.Fetch(context.Background(), "General/BI Import/BI Dimensions.xlsx")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "drive-1", c.driveID)

	// Second fetch reuses the cached drive ID
	_, err = c.Fetch(context.Background(), "General/BI Import/BI Dimensions.xlsx")
	require.NoError(t, err)
}

func TestFetchMissingFile(t *testing.T) {
	srv := newGraphServer(t, nil)
	c := testClient(srv)

	_, err := c.Fetch(context.Background(), "General/BI Import/Nope.xlsx")
	require.Error(t, err)
	assert.Equal(t, errors.CodeFetchFailure, errors.GetCode(err))
}

func TestFetchDriveNotFound(t *testing.T) {
	srv := newGraphServer(t, nil)
	c := testClient(srv)
	c.cfg.DriveName = "Shared"

	_, err := c.Fetch(context.Background(), "General/BI Import/BI Dimensions.xlsx")
	require.Error(t, err)
	assert.Equal(t, errors.CodeFetchFailure, errors.GetCode(err))
	assert.Contains(t, err.Error(), `drive "Shared" not found`)
}

func TestListFolder(t *testing.T) {
	srv := newGraphServer(t, nil)
	c := testClient(srv)

	entries, err := c.ListFolder(context.Background(), "General/BI Import")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "BI Dimensions.xlsx", entries[0].Name)
	assert.Equal(t, int64(1234), entries[0].Size)
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "General/BI%20Import/BI%20Dimensions.xlsx",
		escapePath("General/BI Import/BI Dimensions.xlsx"))
}

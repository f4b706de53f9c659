// Package uploader delivers rendered reports to the owner's WebDAV
// share.
package uploader

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/studio-b12/gowebdav"

	"github.com/wafreport/wafreport/pkg/config"
)

// Uploader delivers one document to remote storage and returns the
// remote path it was stored at.
type Uploader interface {
	Upload(filename string, data []byte, day time.Time) (string, error)
}

// WebDAVUploader stores reports under report/<owner>/<YYYYMMDD>/ on the
// configured WebDAV server.
type WebDAVUploader struct {
	client webdavClient
	owner  string
}

// webdavClient is the slice of gowebdav.Client the uploader needs.
type webdavClient interface {
	Connect() error
	MkdirAll(path string, mode os.FileMode) error
	Write(path string, data []byte, mode os.FileMode) error
}

// NewWebDAVUploader builds an uploader from the delivery configuration.
func NewWebDAVUploader(cfg *config.Config) *WebDAVUploader {
	client := gowebdav.NewClient(cfg.WebDAVHostname, cfg.WebDAVLogin, cfg.WebDAVPassword)
	client.SetTimeout(cfg.WebDAVTimeout)
	return &WebDAVUploader{
		client: client,
		owner:  cfg.ReportOwner,
	}
}

// newWebDAVUploader wires an uploader around an existing client; tests
// inject a fake.
func newWebDAVUploader(client webdavClient, owner string) *WebDAVUploader {
	return &WebDAVUploader{client: client, owner: owner}
}

// RemoteDir returns the collection a report generated on the given day
// is delivered into.
func (u *WebDAVUploader) RemoteDir(day time.Time) string {
	return path.Join("report", u.owner, day.Format("20060102"))
}

// Upload creates the dated collection and writes the document into it.
func (u *WebDAVUploader) Upload(filename string, data []byte, day time.Time) (string, error) {
	if err := u.client.Connect(); err != nil {
		return "", fmt.Errorf("connect to webdav server: %w", err)
	}

	dir := u.RemoteDir(day)
	if err := u.client.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create remote directory %s: %w", dir, err)
	}

	remotePath := path.Join(dir, filename)
	if err := u.client.Write(remotePath, data, 0644); err != nil {
		return "", fmt.Errorf("upload %s: %w", remotePath, err)
	}

	slog.Debug("report uploaded", "path", remotePath, "bytes", len(data))
	return remotePath, nil
}

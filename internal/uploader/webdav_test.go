package uploader

import (
	"errors"
	"os"
	"testing"
	"time"
)

type fakeClient struct {
	connectErr error
	mkdirErr   error
	writeErr   error

	mkdirs []string
	writes map[string][]byte
}

func (f *fakeClient) Connect() error { return f.connectErr }

func (f *fakeClient) MkdirAll(path string, _ os.FileMode) error {
	f.mkdirs = append(f.mkdirs, path)
	return f.mkdirErr
}

func (f *fakeClient) Write(path string, data []byte, _ os.FileMode) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if f.writes == nil {
		f.writes = map[string][]byte{}
	}
	f.writes[path] = data
	return nil
}

func TestUploadWritesIntoDatedCollection(t *testing.T) {
	fake := &fakeClient{}
	u := newWebDAVUploader(fake, "jane.doe")

	day := time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
	remote, err := u.Upload("weekly.pdf", []byte("%PDF-1.7"), day)
	if err != nil {
		t.Fatalf("unexpected upload error: %v", err)
	}

	if remote != "report/jane.doe/20260309/weekly.pdf" {
		t.Fatalf("unexpected remote path: %q", remote)
	}
	if len(fake.mkdirs) != 1 || fake.mkdirs[0] != "report/jane.doe/20260309" {
		t.Fatalf("unexpected collection creation: %v", fake.mkdirs)
	}
	if string(fake.writes[remote]) != "%PDF-1.7" {
		t.Fatalf("unexpected uploaded payload: %q", fake.writes[remote])
	}
}

func TestUploadConnectFailure(t *testing.T) {
	fake := &fakeClient{connectErr: errors.New("401 Unauthorized")}
	u := newWebDAVUploader(fake, "jane.doe")

	_, err := u.Upload("weekly.pdf", nil, time.Now())
	if err == nil {
		t.Fatal("expected connect error")
	}
	if len(fake.mkdirs) != 0 {
		t.Fatal("expected no collection creation after failed connect")
	}
}

func TestUploadMkdirFailure(t *testing.T) {
	fake := &fakeClient{mkdirErr: errors.New("403 Forbidden")}
	u := newWebDAVUploader(fake, "jane.doe")

	if _, err := u.Upload("weekly.pdf", nil, time.Now()); err == nil {
		t.Fatal("expected mkdir error")
	}
	if len(fake.writes) != 0 {
		t.Fatal("expected no writes after failed mkdir")
	}
}

func TestUploadWriteFailure(t *testing.T) {
	fake := &fakeClient{writeErr: errors.New("507 Insufficient Storage")}
	u := newWebDAVUploader(fake, "jane.doe")

	if _, err := u.Upload("weekly.pdf", []byte("x"), time.Now()); err == nil {
		t.Fatal("expected write error")
	}
}

// Package media stores uploaded product images and returns their public URL.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// CleanFilename strips repeated image extensions and spaces, and prefixes a
// unix timestamp so uploads never collide.
func CleanFilename(origName string, now time.Time) (string, error) {
	ext := strings.ToLower(filepath.Ext(origName))
	if !allowedExt[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	baseName := strings.TrimSuffix(filepath.Base(origName), filepath.Ext(origName))

	// Remove duplicate extensions like ".jpg.jpg"
	for {
		e := strings.ToLower(filepath.Ext(baseName))
		if e == "" || !allowedExt[e] {
			break
		}
		baseName = strings.TrimSuffix(baseName, filepath.Ext(baseName))
	}
	baseName = strings.ReplaceAll(baseName, " ", "_")
	return fmt.Sprintf("%d_%s%s", now.Unix(), baseName, ext), nil
}

// Local writes uploads under Dir and serves them from PublicPath.
type Local struct {
	Dir        string
	PublicPath string
	now        func() time.Time
}

func NewLocal(dir, publicPath string) *Local {
	return &Local{Dir: dir, PublicPath: strings.TrimSuffix(publicPath, "/"), now: time.Now}
}

func (l *Local) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	name, err := CleanFilename(filename, l.now())
	if err != nil {
		return "", err
	}
	dir := filepath.Join(l.Dir, "products")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/products/%s", l.PublicPath, name), nil
}

// Cloudinary uploads into a folder of a Cloudinary account.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudURL, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	name, err := CleanFilename(filename, time.Now())
	if err != nil {
		return "", err
	}
	publicID := strings.TrimSuffix(name, filepath.Ext(name))
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: c.folder, PublicID: publicID})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload failed: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

var (
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrInvalidPhotoName = errors.New("invalid photo name")
)

// PhotoStorage keeps profile photos keyed by file name (<user_id>.jpg).
type PhotoStorage interface {
	Exists(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, name string, r io.Reader) error
	// ServeImage writes the image (or a redirect to it) to w. It returns
	// ErrPhotoNotFound without writing anything when the photo is absent.
	ServeImage(w http.ResponseWriter, r *http.Request, name string) error
}

var photoNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9]+)?$`)

// PhotoFileName is the storage name of a user's photo reference.
func PhotoFileName(ref string) string {
	return ref + ".jpg"
}

func checkPhotoName(name string) error {
	if !photoNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPhotoName, name)
	}
	return nil
}

// LocalPhotoStorage stores photos as files in a single directory.
type LocalPhotoStorage struct {
	dir string
}

func NewLocalPhotoStorage(dir string) (*LocalPhotoStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &LocalPhotoStorage{dir: dir}, nil
}

func (s *LocalPhotoStorage) Exists(_ context.Context, name string) (bool, error) {
	if err := checkPhotoName(name); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(s.dir, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Save writes to a uuid-named temp file and renames it into place, so readers
// never see a partial image.
func (s *LocalPhotoStorage) Save(_ context.Context, name string, r io.Reader) error {
	if err := checkPhotoName(name); err != nil {
		return err
	}

	tmp := filepath.Join(s.dir, ".tmp-"+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp photo: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write photo: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close photo: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store photo: %w", err)
	}
	return nil
}

func (s *LocalPhotoStorage) ServeImage(w http.ResponseWriter, r *http.Request, name string) error {
	if err := checkPhotoName(name); err != nil {
		return err
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrPhotoNotFound
		}
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return ErrPhotoNotFound
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, name, info.ModTime(), f)
	return nil
}

// CloudinaryPhotoStorage keeps photos in Cloudinary under a folder, with the
// photo reference as public id.
type CloudinaryPhotoStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryPhotoStorage(cloudName, apiKey, apiSecret, folder string) (*CloudinaryPhotoStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryPhotoStorage{cld: cld, folder: strings.Trim(folder, "/")}, nil
}

func (s *CloudinaryPhotoStorage) publicID(name string) string {
	id := strings.TrimSuffix(name, path.Ext(name))
	if s.folder == "" {
		return id
	}
	return s.folder + "/" + id
}

func (s *CloudinaryPhotoStorage) secureURL(ctx context.Context, name string) (string, error) {
	if err := checkPhotoName(name); err != nil {
		return "", err
	}
	res, err := s.cld.Admin.Asset(ctx, admin.AssetParams{PublicID: s.publicID(name)})
	if err != nil {
		return "", fmt.Errorf("cloudinary asset lookup: %w", err)
	}
	// the admin API reports a missing asset in the response body
	if res.Error.Message != "" || res.SecureURL == "" {
		return "", nil
	}
	return res.SecureURL, nil
}

func (s *CloudinaryPhotoStorage) Exists(ctx context.Context, name string) (bool, error) {
	u, err := s.secureURL(ctx, name)
	if err != nil {
		return false, err
	}
	return u != "", nil
}

func (s *CloudinaryPhotoStorage) Save(ctx context.Context, name string, r io.Reader) error {
	if err := checkPhotoName(name); err != nil {
		return err
	}
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     s.publicID(name),
		Overwrite:    api.Bool(true),
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("failed to upload to Cloudinary: %s", res.Error.Message)
	}
	return nil
}

func (s *CloudinaryPhotoStorage) ServeImage(w http.ResponseWriter, r *http.Request, name string) error {
	u, err := s.secureURL(r.Context(), name)
	if err != nil {
		return err
	}
	if u == "" {
		return ErrPhotoNotFound
	}
	http.Redirect(w, r, u, http.StatusFound)
	return nil
}

package images

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrUnknownBackend = errors.New("unknown image backend")
	ErrUnknownImage   = errors.New("unknown image")
	ErrUnsupported    = errors.New("unsupported image format")
)

// Target is a named source image and the variants to derive from it.
type Target struct {
	Source  string
	Widths  []int
	Format  string
	Quality int
}

// Options select one variant.
type Options struct {
	// Width of 0 keeps the source size. Height follows the aspect ratio.
	Width   int
	Format  string
	Quality int
}

// Backend turns source bytes into a variant.
type Backend interface {
	Name() string
	Transform(src []byte, format string, opts Options) ([]byte, error)
}

var backends = map[string]Backend{
	"imaging": imagingBackend{},
	"copy":    copyBackend{},
}

func LookupBackend(name string) (Backend, error) {
	b, ok := backends[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", name)
	}
	return b, nil
}

// Service renders image variants and caches them on disk.
type Service struct {
	backend  Backend
	cacheDir string
	targets  map[string]Target
	log      *zap.Logger

	mu sync.Mutex
}

func NewService(backend Backend, cacheDir string, targets map[string]Target, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		backend:  backend,
		cacheDir: cacheDir,
		targets:  targets,
		log:      log.Named("images"),
	}
}

// Variant identifies one file the service can produce.
type Variant struct {
	Name    string
	Options Options
}

// FileName is the public file name of the variant, e.g. hero-800.jpg.
func (v Variant) FileName() string {
	return fmt.Sprintf("%s-%d.%s", v.Name, v.Options.Width, extension(v.Options.Format))
}

// Variants lists every variant declared by the targets, sorted by file name.
func (s *Service) Variants() ([]Variant, error) {
	var out []Variant
	for name := range s.targets {
		for _, w := range s.targets[name].Widths {
			v, err := s.Variant(name, w)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	sortVariants(out)
	return out, nil
}

// Variant resolves a target name and one of its declared widths, detecting
// the output format from the source when the target does not set one.
func (s *Service) Variant(name string, width int) (Variant, error) {
	t, ok := s.targets[name]
	if !ok {
		return Variant{}, errors.Wrapf(ErrUnknownImage, "%q", name)
	}
	if !s.declares(name, width) {
		return Variant{}, errors.Wrapf(ErrUnknownImage, "%q has no width %d", name, width)
	}
	format := t.Format
	if format == "" {
		data, err := os.ReadFile(t.Source)
		if err != nil {
			return Variant{}, errors.WithStack(err)
		}
		if format, err = detectFormat(data); err != nil {
			return Variant{}, errors.Wrap(err, t.Source)
		}
	}
	return Variant{Name: name, Options: Options{Width: width, Format: normalizeFormat(format), Quality: t.Quality}}, nil
}

// Lookup finds the variant for a public file name.
func (s *Service) Lookup(file string) (Variant, error) {
	base := strings.TrimSuffix(file, filepath.Ext(file))
	dash := strings.LastIndexByte(base, '-')
	if dash < 0 {
		return Variant{}, errors.Wrapf(ErrUnknownImage, "%q", file)
	}
	width, err := strconv.Atoi(base[dash+1:])
	if err != nil {
		return Variant{}, errors.Wrapf(ErrUnknownImage, "%q", file)
	}
	name := base[:dash]
	if !s.declares(name, width) {
		return Variant{}, errors.Wrapf(ErrUnknownImage, "%q", file)
	}
	v, err := s.Variant(name, width)
	if err != nil {
		return Variant{}, err
	}
	if v.FileName() != file {
		return Variant{}, errors.Wrapf(ErrUnknownImage, "%q", file)
	}
	return v, nil
}

func (s *Service) declares(name string, width int) bool {
	for _, w := range s.targets[name].Widths {
		if w == width {
			return true
		}
	}
	return false
}

// Render returns the variant bytes, from the cache when possible.
func (s *Service) Render(v Variant) ([]byte, error) {
	t, ok := s.targets[v.Name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownImage, "%q", v.Name)
	}
	src, err := os.ReadFile(t.Source)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	key := cacheKey(s.backend.Name(), src, v.Options)
	cachePath := filepath.Join(s.cacheDir, key+"."+extension(v.Options.Format))

	s.mu.Lock()
	defer s.mu.Unlock()

	if data, err := os.ReadFile(cachePath); err == nil {
		s.log.Debug("Image cache hit", zap.String("file", v.FileName()))
		return data, nil
	}

	srcFormat, err := detectFormat(src)
	if err != nil {
		return nil, errors.Wrap(err, t.Source)
	}
	data, err := s.backend.Transform(src, srcFormat, v.Options)
	if err != nil {
		return nil, errors.Wrapf(err, "transforming %s", t.Source)
	}

	if err := os.MkdirAll(s.cacheDir, os.ModePerm); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		return nil, errors.WithStack(err)
	}
	s.log.Debug("Image rendered", zap.String("file", v.FileName()), zap.Int("bytes", len(data)))

	return data, nil
}

// WriteAll renders every variant into dir.
func (s *Service) WriteAll(dir string) ([]string, error) {
	variants, err := s.Variants()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.WithStack(err)
	}

	var written []string
	for _, v := range variants {
		data, err := s.Render(v)
		if err != nil {
			return nil, err
		}
		p := filepath.Join(dir, v.FileName())
		if err := os.WriteFile(p, data, 0644); err != nil {
			return nil, errors.WithStack(err)
		}
		written = append(written, p)
	}
	return written, nil
}

func sortVariants(vs []Variant) {
	sort.Slice(vs, func(i, j int) bool { return vs[i].FileName() < vs[j].FileName() })
}

func cacheKey(backend string, src []byte, opts Options) string {
	h := sha256.New()
	h.Write([]byte(backend))
	h.Write(src)
	fmt.Fprintf(h, "|%d|%s|%d", opts.Width, opts.Format, opts.Quality)
	return hex.EncodeToString(h.Sum(nil))
}

func detectFormat(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", errors.WithStack(ErrUnsupported)
	}
	switch kind.Extension {
	case "jpg", "png", "gif":
		return normalizeFormat(kind.Extension), nil
	}
	return "", errors.Wrapf(ErrUnsupported, "%s", kind.MIME.Value)
}

func normalizeFormat(f string) string {
	f = strings.ToLower(f)
	if f == "jpg" {
		return "jpeg"
	}
	return f
}

func extension(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

type imagingBackend struct{}

func (imagingBackend) Name() string { return "imaging" }

func (imagingBackend) Transform(src []byte, _ string, opts Options) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if opts.Width > 0 && opts.Width < img.Bounds().Dx() {
		img = imaging.Resize(img, opts.Width, 0, imaging.Lanczos)
	}
	return encode(img, opts)
}

func encode(img image.Image, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch opts.Format {
	case "jpeg":
		quality := opts.Quality
		if quality <= 0 {
			quality = 80
		}
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case "png":
		err = imaging.Encode(&buf, img, imaging.PNG)
	case "gif":
		err = imaging.Encode(&buf, img, imaging.GIF)
	default:
		return nil, errors.Wrapf(ErrUnsupported, "%q", opts.Format)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}

// copyBackend serves the source unchanged. It only accepts variants in the
// source's own format.
type copyBackend struct{}

func (copyBackend) Name() string { return "copy" }

func (copyBackend) Transform(src []byte, format string, opts Options) ([]byte, error) {
	if opts.Format != format {
		return nil, errors.Wrapf(ErrUnsupported, "copy backend cannot convert %s to %s", format, opts.Format)
	}
	return src, nil
}

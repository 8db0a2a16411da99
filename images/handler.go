package images

import (
	"mime"
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PathPrefix is where variants are published, both on disk under the public
// directory and over HTTP.
const PathPrefix = "/images/"

// URL returns the public path of a variant.
func URL(v Variant) string {
	return path.Join(PathPrefix, v.FileName())
}

// Handler serves variants on demand under PathPrefix.
func (s *Service) Handler() http.Handler {
	router := httprouter.New()
	router.GET(PathPrefix+":file", s.serveVariant)
	return router
}

func (s *Service) serveVariant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	v, err := s.Lookup(ps.ByName("file"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, err := s.Render(v)
	if err != nil {
		s.log.Error("Unable to render image", zap.String("file", v.FileName()), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Cause(err) == ErrUnsupported {
			status = http.StatusUnsupportedMediaType
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", mime.TypeByExtension(path.Ext(v.FileName())))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

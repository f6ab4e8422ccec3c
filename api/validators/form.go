package validators

import (
	"mime"
	"net/http"

	pkgerrors "github.com/glazeworks/window-storefront/pkg/errors"
)

const maxFieldLen = 128

// ParseForm reads a urlencoded or multipart form body, bounded in size.
func ParseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(maxBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	return nil
}

// FormValue returns a trimmed, length-bounded form field.
func FormValue(r *http.Request, key string) string {
	return SanitizeString(r.PostFormValue(key), maxFieldLen)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

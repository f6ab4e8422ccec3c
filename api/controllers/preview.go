package controllers

import (
	"net/http"

	"github.com/glazeworks/window-storefront/api/responses"
	"github.com/glazeworks/window-storefront/api/validators"
	"github.com/glazeworks/window-storefront/internal/preview"
)

const previewFieldLen = 32

func Preview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		panels := validators.SanitizeString(q.Get("noOfPanels"), previewFieldLen)
		partition := validators.SanitizeString(q.Get("fixedPartition"), previewFieldLen)
		responses.WriteSuccess(w, preview.Lookup(panels, partition))
	}
}

package jsonapi

import (
	"encoding/json"
	"net/http"
)

// WriteDocument writes a JSON:API document to the response.
func WriteDocument(w http.ResponseWriter, status int, doc Document) {
	if doc.JSONAPI == nil {
		doc.JSONAPI = &JSONAPI{Version: Version}
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(doc)
}

// WriteResource writes a single resource response.
func WriteResource(w http.ResponseWriter, r Resource) {
	WriteDocument(w, http.StatusOK, Document{Data: r})
}

// WriteCollection writes a collection response with optional pagination.
func WriteCollection(w http.ResponseWriter, resources []Resource, p *Pagination, meta Meta) {
	if resources == nil {
		resources = []Resource{}
	}
	doc := Document{Data: resources, Meta: meta}
	if p != nil {
		doc.Links = p.Links()
		if doc.Meta == nil {
			doc.Meta = Meta{}
		}
		for k, v := range p.Meta() {
			doc.Meta[k] = v
		}
	}
	WriteDocument(w, http.StatusOK, doc)
}

// WriteError writes an error response with one or more errors.
// The HTTP status is derived from the first error's status field.
func WriteError(w http.ResponseWriter, errs ...Error) {
	if len(errs) == 0 {
		errs = []Error{ErrInternal("")}
	}

	status := errs[0].StatusCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}

	WriteDocument(w, status, Document{Errors: errs})
}

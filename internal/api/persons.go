package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/triska-dev/person-registry/internal/person"
)

// handleListPersons returns the full person listing with hypermedia links.
func (s *Server) handleListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := s.queries.List(r.Context())
	if err != nil {
		s.writePersonError(w, "list persons", err)
		return
	}

	writeJSON(w, http.StatusOK, toCollection(persons, basePath))
}

// handleListPersonsPage returns one page of person resources.
//
// Query parameters: page (zero-based), size, and sort in "field" or
// "field,desc" form, repeatable.
func (s *Server) handleListPersonsPage(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	page, err := s.queries.ListPage(r.Context(), req)
	if err != nil {
		s.writePersonError(w, "list persons page", err)
		return
	}

	writeJSON(w, http.StatusOK, toPaged(page, req.Sort))
}

// handleGetPerson returns a single person resource by id.
func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := parsePersonID(r)
	if err != nil {
		writeBadRequest(w, "person id must be a positive integer")
		return
	}

	p, err := s.queries.GetByID(r.Context(), id)
	if err != nil {
		s.writePersonError(w, "get person", err)
		return
	}

	writeJSON(w, http.StatusOK, toResource(*p))
}

// handleListPersonsByGender returns all persons matching the gender
// path segment, matched case-insensitively.
func (s *Server) handleListPersonsByGender(w http.ResponseWriter, r *http.Request) {
	gender := chi.URLParam(r, "gender")

	persons, err := s.queries.ListByGender(r.Context(), gender)
	if err != nil {
		s.writePersonError(w, "list persons by gender", err)
		return
	}

	writeJSON(w, http.StatusOK, toCollection(persons, basePath+"/gender/"+gender))
}

// handleCreatePerson registers a new person record.
func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var in person.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	p, err := s.commands.Create(r.Context(), in)
	if err != nil {
		s.writePersonError(w, "create person", err)
		return
	}

	claims := claimsFromContext(r.Context())
	s.logger.Info("person created", "person_id", p.ID, "created_by", claims.Subject)

	w.Header().Set("Location", toResource(*p).Links["self"].Href)
	writeJSON(w, http.StatusCreated, toResource(*p))
}

// handleUpdatePerson applies a partial update to a person record.
func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := parsePersonID(r)
	if err != nil {
		writeBadRequest(w, "person id must be a positive integer")
		return
	}

	var in person.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	p, err := s.commands.Update(r.Context(), id, in)
	if err != nil {
		s.writePersonError(w, "update person", err)
		return
	}

	claims := claimsFromContext(r.Context())
	s.logger.Info("person updated", "person_id", p.ID, "updated_by", claims.Subject)

	writeJSON(w, http.StatusOK, toResource(*p))
}

// handleDeletePerson removes a person record.
func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := parsePersonID(r)
	if err != nil {
		writeBadRequest(w, "person id must be a positive integer")
		return
	}

	if err := s.commands.Delete(r.Context(), id); err != nil {
		s.writePersonError(w, "delete person", err)
		return
	}

	claims := claimsFromContext(r.Context())
	s.logger.Info("person deleted", "person_id", id, "deleted_by", claims.Subject)

	w.WriteHeader(http.StatusNoContent)
}

// writePersonError maps domain errors to the structured error envelope.
// Unexpected errors are logged and reported as opaque 500s.
func (s *Server) writePersonError(w http.ResponseWriter, op string, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, person.ErrPersonNotFound):
		writeNotFound(w, "person not found")
	case errors.Is(err, person.ErrInvalidGender):
		writeBadRequest(w, "gender must be male, female, or other")
	case errors.Is(err, person.ErrInvalidPageRequest):
		writeBadRequest(w, err.Error())
	case errors.Is(err, person.ErrEmailExists):
		writeConflict(w, "email already registered")
	case errors.Is(err, person.ErrStoreUnavailable):
		s.logger.Error(op+" failed: store unavailable", "error", err)
		writeStoreUnavailable(w, "person store unavailable")
	case errors.As(err, &validationErrs):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, formatValidationErrors(validationErrs))
	default:
		s.logger.Error(op+" failed", "error", err)
		writeInternalError(w, "internal server error")
	}
}

// formatValidationErrors renders validator errors as a short field list.
func formatValidationErrors(errs validator.ValidationErrors) string {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, strings.ToLower(fe.Field())+" failed "+fe.Tag()+" validation")
	}
	return strings.Join(fields, "; ")
}

// parsePersonID extracts and validates the {id} path parameter.
func parsePersonID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid person id")
	}
	return id, nil
}

// parsePageRequest parses page, size, and sort query parameters.
func parsePageRequest(r *http.Request) (person.PageRequest, error) {
	var req person.PageRequest
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("page must be an integer")
		}
		req.Page = page
	}
	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return req, errors.New("size must be a positive integer")
		}
		req.Size = size
	}

	for _, raw := range q["sort"] {
		field, dir, _ := strings.Cut(raw, ",")
		if field == "" {
			return req, errors.New("sort field must not be empty")
		}
		desc := false
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			desc = true
		default:
			return req, errors.New("sort direction must be asc or desc")
		}
		req.Sort = append(req.Sort, person.SortOrder{Field: field, Desc: desc})
	}

	return req, nil
}

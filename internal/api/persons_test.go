package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/triska-dev/person-registry/internal/auth"
	"github.com/triska-dev/person-registry/internal/person"
)

func TestHandleListPersons(t *testing.T) {
	srv, commands := testServer(t)
	token := tokenFor(t, auth.RolePerson)

	t.Run("empty store", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var body CollectionResource
		decodeBody(t, rec, &body)
		if body.Count != 0 {
			t.Errorf("count = %d, want 0", body.Count)
		}
		if body.Persons == nil {
			t.Error("persons should serialise as [], not null")
		}
	})

	alice := seedPerson(t, commands, "Alice", "alice@example.com", "female", 30)
	bob := seedPerson(t, commands, "Bob", "bob@example.com", "male", 40)

	t.Run("two records", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var body CollectionResource
		decodeBody(t, rec, &body)
		if body.Count != 2 {
			t.Fatalf("count = %d, want 2", body.Count)
		}
		if body.Links["self"].Href != "/api/v1/persons" {
			t.Errorf("collection self link = %q", body.Links["self"].Href)
		}

		wantSelf := fmt.Sprintf("/api/v1/persons/%d", alice.ID)
		if body.Persons[0].Links["self"].Href != wantSelf {
			t.Errorf("alice self link = %q, want %q", body.Persons[0].Links["self"].Href, wantSelf)
		}
		if body.Persons[1].ID != bob.ID {
			t.Errorf("second record id = %d, want %d", body.Persons[1].ID, bob.ID)
		}
	})
}

func TestHandleGetPerson(t *testing.T) {
	srv, commands := testServer(t)
	token := tokenFor(t, auth.RolePerson)

	alice := seedPerson(t, commands, "Alice", "alice@example.com", "female", 30)

	t.Run("found", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/persons/%d", alice.ID), token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var body PersonResource
		decodeBody(t, rec, &body)
		if body.Name != "Alice" {
			t.Errorf("name = %q, want Alice", body.Name)
		}
		wantSelf := fmt.Sprintf("/api/v1/persons/%d", alice.ID)
		if body.Links["self"].Href != wantSelf {
			t.Errorf("self link = %q, want %q", body.Links["self"].Href, wantSelf)
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons/99", token, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}

		var apiErr Error
		decodeBody(t, rec, &apiErr)
		if apiErr.Code != ErrCodeNotFound {
			t.Errorf("error code = %q, want %q", apiErr.Code, ErrCodeNotFound)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons/abc", token, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandleListPersonsByGender(t *testing.T) {
	srv, commands := testServer(t)
	token := tokenFor(t, auth.RolePerson)

	seedPerson(t, commands, "Alice", "alice@example.com", "female", 30)
	bob := seedPerson(t, commands, "Bob", "bob@example.com", "male", 40)

	// Gender matching is case-insensitive and accepts single-letter forms.
	for _, raw := range []string{"male", "Male", "MALE", "m"} {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons/gender/"+raw, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("gender=%q status = %d, want 200", raw, rec.Code)
		}

		var body CollectionResource
		decodeBody(t, rec, &body)
		if body.Count != 1 || body.Persons[0].ID != bob.ID {
			t.Errorf("gender=%q returned %d records, want only Bob", raw, body.Count)
		}
		if body.Persons[0].Links["self"].Href == "" {
			t.Error("gender listing records should carry self links")
		}
	}

	t.Run("unknown gender", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons/gender/martian", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var body CollectionResource
		decodeBody(t, rec, &body)
		if body.Count != 0 {
			t.Errorf("count = %d, want 0", body.Count)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons/gender/other", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var body CollectionResource
		decodeBody(t, rec, &body)
		if body.Count != 0 {
			t.Errorf("count = %d, want 0", body.Count)
		}
	})
}

func TestHandleListPersonsPage(t *testing.T) {
	srv, commands := testServer(t)
	token := tokenFor(t, auth.RolePerson)

	for _, name := range []string{"Alice", "Bob", "Carol", "Dave", "Eve"} {
		seedPerson(t, commands, name, name+"@example.com", "other", 30)
	}

	t.Run("middle page", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons/page?page=1&size=2", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var body PagedResource
		decodeBody(t, rec, &body)
		if len(body.Persons) != 2 {
			t.Errorf("persons = %d, want 2", len(body.Persons))
		}
		if body.Page.TotalElements != 5 || body.Page.TotalPages != 3 {
			t.Errorf("page meta = %+v, want 5 elements over 3 pages", body.Page)
		}
		if body.Links["prev"].Href != "/api/v1/persons/page?page=0&size=2" {
			t.Errorf("prev link = %q", body.Links["prev"].Href)
		}
		if body.Links["next"].Href != "/api/v1/persons/page?page=2&size=2" {
			t.Errorf("next link = %q", body.Links["next"].Href)
		}
		if body.Links["first"].Href != "/api/v1/persons/page?page=0&size=2" {
			t.Errorf("first link = %q", body.Links["first"].Href)
		}
		if body.Links["last"].Href != "/api/v1/persons/page?page=2&size=2" {
			t.Errorf("last link = %q", body.Links["last"].Href)
		}
	})

	t.Run("first page has no prev", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons/page?page=0&size=2", token, nil)

		var body PagedResource
		decodeBody(t, rec, &body)
		if _, ok := body.Links["prev"]; ok {
			t.Error("first page should not carry a prev link")
		}
		if _, ok := body.Links["next"]; !ok {
			t.Error("first page of three should carry a next link")
		}
	})

	t.Run("last page has no next", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons/page?page=2&size=2", token, nil)

		var body PagedResource
		decodeBody(t, rec, &body)
		if _, ok := body.Links["next"]; ok {
			t.Error("last page should not carry a next link")
		}
		if len(body.Persons) != 1 {
			t.Errorf("last page = %d records, want 1", len(body.Persons))
		}
	})

	t.Run("default size", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons/page", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var body PagedResource
		decodeBody(t, rec, &body)
		if body.Page.Size != 20 {
			t.Errorf("size = %d, want default 20", body.Page.Size)
		}
	})

	t.Run("sorted descending", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/persons/page?page=0&size=5&sort=name,desc", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var body PagedResource
		decodeBody(t, rec, &body)
		if body.Persons[0].Name != "Eve" {
			t.Errorf("first sorted record = %q, want Eve", body.Persons[0].Name)
		}
		if want := "/api/v1/persons/page?page=0&size=5&sort=name,desc"; body.Links["self"].Href != want {
			t.Errorf("self link = %q, want %q", body.Links["self"].Href, want)
		}
	})

	t.Run("invalid parameters", func(t *testing.T) {
		paths := []string{
			"/api/v1/persons/page?page=-1",
			"/api/v1/persons/page?size=0&page=0",
			"/api/v1/persons/page?size=-3",
			"/api/v1/persons/page?size=999",
			"/api/v1/persons/page?page=abc",
			"/api/v1/persons/page?sort=name,sideways",
			"/api/v1/persons/page?sort=passwd",
		}
		for _, path := range paths {
			rec := doRequest(t, srv, http.MethodGet, path, token, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s status = %d, want 400", path, rec.Code)
			}
		}
	})

	// Pages must partition the listing exactly.
	t.Run("pages cover every record once", func(t *testing.T) {
		seen := map[int64]bool{}
		for page := 0; page < 3; page++ {
			rec := doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/persons/page?page=%d&size=2", page), token, nil)

			var body PagedResource
			decodeBody(t, rec, &body)
			for _, p := range body.Persons {
				if seen[p.ID] {
					t.Errorf("person %d appeared on more than one page", p.ID)
				}
				seen[p.ID] = true
			}
		}
		if len(seen) != 5 {
			t.Errorf("pages covered %d records, want 5", len(seen))
		}
	})
}

func TestHandleCreatePerson(t *testing.T) {
	srv, _ := testServer(t)
	token := tokenFor(t, auth.RoleAdmin)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/persons", token, person.CreateInput{
		Name:   "Alice",
		Email:  "alice@example.com",
		Gender: "Female",
		Age:    30,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var body PersonResource
	decodeBody(t, rec, &body)
	if body.ID == 0 {
		t.Error("created person should carry an id")
	}
	if body.Gender != person.GenderFemale {
		t.Errorf("gender = %q, want normalized female", body.Gender)
	}
	if loc := rec.Header().Get("Location"); loc != body.Links["self"].Href {
		t.Errorf("Location = %q, want %q", loc, body.Links["self"].Href)
	}

	t.Run("duplicate email", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/persons", token, person.CreateInput{
			Name:   "Other Alice",
			Email:  "alice@example.com",
			Gender: "female",
			Age:    31,
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("validation failure", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/persons", token, person.CreateInput{
			Name:   "Bob",
			Email:  "not-an-email",
			Gender: "male",
			Age:    30,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}

		var apiErr Error
		decodeBody(t, rec, &apiErr)
		if apiErr.Code != ErrCodeValidation {
			t.Errorf("error code = %q, want %q", apiErr.Code, ErrCodeValidation)
		}
	})
}

func TestHandleUpdatePerson(t *testing.T) {
	srv, commands := testServer(t)
	token := tokenFor(t, auth.RoleAdmin)

	alice := seedPerson(t, commands, "Alice", "alice@example.com", "female", 30)

	rec := doRequest(t, srv, http.MethodPatch, fmt.Sprintf("/api/v1/persons/%d", alice.ID), token, map[string]any{
		"name": "Alice Jones",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body PersonResource
	decodeBody(t, rec, &body)
	if body.Name != "Alice Jones" {
		t.Errorf("name = %q, want Alice Jones", body.Name)
	}
	if body.Email != "alice@example.com" {
		t.Errorf("email changed on partial update: %q", body.Email)
	}

	t.Run("not found", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPatch, "/api/v1/persons/99", token, map[string]any{"name": "X"})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandleDeletePerson(t *testing.T) {
	srv, commands := testServer(t)
	token := tokenFor(t, auth.RoleAdmin)

	alice := seedPerson(t, commands, "Alice", "alice@example.com", "female", 30)

	rec := doRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/persons/%d", alice.ID), token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/persons/%d", alice.ID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/persons/%d", alice.ID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

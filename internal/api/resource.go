package api

import (
	"fmt"
	"strings"

	"github.com/triska-dev/person-registry/internal/person"
)

// basePath is the canonical path prefix for person resources.
const basePath = "/api/v1/persons"

// Link is a single hypermedia link.
type Link struct {
	Href string `json:"href"`
}

// Links maps relation names to links.
type Links map[string]Link

// PersonResource wraps a person record with its hypermedia links.
type PersonResource struct {
	person.Person
	Links Links `json:"_links"`
}

// CollectionResource is an unpaged listing of person resources.
type CollectionResource struct {
	Persons []PersonResource `json:"persons"`
	Count   int              `json:"count"`
	Links   Links            `json:"_links"`
}

// PageMetadata carries the pagination totals for a paged listing.
type PageMetadata struct {
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// PagedResource is one page of person resources with navigation links.
type PagedResource struct {
	Persons []PersonResource `json:"persons"`
	Page    PageMetadata     `json:"page"`
	Links   Links            `json:"_links"`
}

// toResource wraps a person record with its self link.
func toResource(p person.Person) PersonResource {
	return PersonResource{
		Person: p,
		Links: Links{
			"self": {Href: fmt.Sprintf("%s/%d", basePath, p.ID)},
		},
	}
}

// toResources wraps each record in a slice. Always returns a non-nil
// slice so empty listings serialise as [].
func toResources(persons []person.Person) []PersonResource {
	resources := make([]PersonResource, 0, len(persons))
	for _, p := range persons {
		resources = append(resources, toResource(p))
	}
	return resources
}

// toCollection assembles an unpaged listing with its self link.
func toCollection(persons []person.Person, selfHref string) CollectionResource {
	resources := toResources(persons)
	return CollectionResource{
		Persons: resources,
		Count:   len(resources),
		Links: Links{
			"self": {Href: selfHref},
		},
	}
}

// toPaged assembles a paged listing with first/prev/self/next/last
// navigation. Prev and next are omitted at the edges. The sort orders
// are carried into every navigation link so that following them keeps
// the listing in the same order.
func toPaged(page person.Page, sort []person.SortOrder) PagedResource {
	var sortParams strings.Builder
	for _, s := range sort {
		sortParams.WriteString("&sort=")
		sortParams.WriteString(s.Field)
		if s.Desc {
			sortParams.WriteString(",desc")
		}
	}
	pageHref := func(n int) string {
		return fmt.Sprintf("%s/page?page=%d&size=%d%s", basePath, n, page.Size, sortParams.String())
	}

	links := Links{
		"self":  {Href: pageHref(page.Number)},
		"first": {Href: pageHref(0)},
	}
	if page.TotalPages > 0 {
		links["last"] = Link{Href: pageHref(page.TotalPages - 1)}
	} else {
		links["last"] = Link{Href: pageHref(0)}
	}
	if page.HasPrev() {
		links["prev"] = Link{Href: pageHref(page.Number - 1)}
	}
	if page.HasNext() {
		links["next"] = Link{Href: pageHref(page.Number + 1)}
	}

	return PagedResource{
		Persons: toResources(page.Content),
		Page: PageMetadata{
			Number:        page.Number,
			Size:          page.Size,
			TotalElements: page.TotalElements,
			TotalPages:    page.TotalPages,
		},
		Links: links,
	}
}

package pages

import (
	"encoding/json"
	"strings"
	"time"

	"megawe/internal/domain/job"
)

const schemaContext = "https://schema.org"

type postalAddress struct {
	Type            string `json:"@type"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressCountry  string `json:"addressCountry"`
}

type place struct {
	Type    string        `json:"@type"`
	Address postalAddress `json:"address"`
}

type organization struct {
	Context           string         `json:"@context,omitempty"`
	Type              string         `json:"@type"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	URL               string         `json:"url,omitempty"`
	SameAs            string         `json:"sameAs,omitempty"`
	Logo              string         `json:"logo,omitempty"`
	Address           *postalAddress `json:"address,omitempty"`
	NumberOfEmployees *int           `json:"numberOfEmployees,omitempty"`
}

type propertyValue struct {
	Type  string `json:"@type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type quantitativeValue struct {
	Type     string `json:"@type"`
	MinValue int64  `json:"minValue"`
	MaxValue int64  `json:"maxValue"`
	UnitText string `json:"unitText"`
}

type monetaryAmount struct {
	Type     string            `json:"@type"`
	Currency string            `json:"currency"`
	Value    quantitativeValue `json:"value"`
}

type country struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type jobPosting struct {
	Context                       string          `json:"@context,omitempty"`
	Type                          string          `json:"@type"`
	Position                      int             `json:"position,omitempty"`
	Title                         string          `json:"title,omitempty"`
	Name                          string          `json:"name,omitempty"`
	URL                           string          `json:"url,omitempty"`
	Description                   string          `json:"description,omitempty"`
	Identifier                    *propertyValue  `json:"identifier,omitempty"`
	DatePosted                    string          `json:"datePosted,omitempty"`
	ValidThrough                  string          `json:"validThrough,omitempty"`
	EmploymentType                string          `json:"employmentType,omitempty"`
	HiringOrganization            organization    `json:"hiringOrganization"`
	JobLocation                   place           `json:"jobLocation"`
	JobLocationType               string          `json:"jobLocationType,omitempty"`
	BaseSalary                    *monetaryAmount `json:"baseSalary,omitempty"`
	ApplicantLocationRequirements *country        `json:"applicantLocationRequirements,omitempty"`
}

type itemList struct {
	Type            string       `json:"@type"`
	NumberOfItems   int          `json:"numberOfItems"`
	ItemListElement []jobPosting `json:"itemListElement"`
}

type collectionPage struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	MainEntity  itemList `json:"mainEntity"`
}

func indonesia(locality string) postalAddress {
	return postalAddress{Type: "PostalAddress", AddressLocality: locality, AddressCountry: "ID"}
}

// JobPostingLD is the schema.org JobPosting of v. Missing dates fall back to
// now and now plus thirty days; baseSalary needs both bounds.
func (b *Builder) JobPostingLD(v job.View) string {
	now := b.now()
	posted := now
	if v.PostedAt != nil {
		posted = *v.PostedAt
	}
	valid := now.Add(validityWindow)
	if v.ExpiresAt != nil {
		valid = *v.ExpiresAt
	}

	jp := jobPosting{
		Context:        schemaContext,
		Type:           "JobPosting",
		Title:          v.Title,
		Description:    v.Description,
		Identifier:     &propertyValue{Type: "PropertyValue", Name: v.Company.Name, Value: v.ID},
		DatePosted:     posted.UTC().Format(time.RFC3339),
		ValidThrough:   valid.UTC().Format(time.RFC3339),
		EmploymentType: job.SchemaEmploymentType(v.EmploymentType),
		HiringOrganization: organization{
			Type:   "Organization",
			Name:   v.Company.Name,
			SameAs: b.companyURL(v.Company),
			Logo:   v.Company.Logo,
		},
		JobLocation:                   place{Type: "Place", Address: indonesia(v.Location)},
		ApplicantLocationRequirements: &country{Type: "Country", Name: "Indonesia"},
	}
	if v.IsRemote {
		jp.JobLocationType = "TELECOMMUTE"
	}
	if lo, hi := v.Salary.Bounds(); lo > 0 && hi > 0 {
		jp.BaseSalary = &monetaryAmount{
			Type:     "MonetaryAmount",
			Currency: v.Salary.Currency,
			Value: quantitativeValue{
				Type:     "QuantitativeValue",
				MinValue: lo,
				MaxValue: hi,
				UnitText: job.SchemaSalaryUnit(v.Salary.Period),
			},
		}
	}
	return marshalLD(jp)
}

// OrganizationLD describes a company page.
func (b *Builder) OrganizationLD(c job.Company, description, location string, jobCount int) string {
	org := organization{
		Context:           schemaContext,
		Type:              "Organization",
		Name:              c.Name,
		Description:       description,
		URL:               b.companyURL(c),
		Logo:              c.Logo,
		NumberOfEmployees: &jobCount,
	}
	if location != "" {
		addr := indonesia(location)
		org.Address = &addr
	}
	return marshalLD(org)
}

// CollectionPageLD lists jobs of a location page as an ItemList.
func (b *Builder) CollectionPageLD(name, slug, description string, total int, jobs []job.View) string {
	items := make([]jobPosting, 0, len(jobs))
	for i, v := range jobs {
		items = append(items, jobPosting{
			Type:               "JobPosting",
			Position:           i + 1,
			Name:               v.Title,
			URL:                b.url("jobs", v.ID),
			HiringOrganization: organization{Type: "Organization", Name: v.Company.Name},
			JobLocation:        place{Type: "Place", Address: indonesia(name)},
		})
	}
	return marshalLD(collectionPage{
		Context:     schemaContext,
		Type:        "CollectionPage",
		Name:        "Lowongan Kerja di " + name,
		Description: description,
		URL:         b.url("locations", slug),
		MainEntity: itemList{
			Type:            "ItemList",
			NumberOfItems:   total,
			ItemListElement: items,
		},
	})
}

func (b *Builder) companyURL(c job.Company) string {
	if c.ID == "" {
		return ""
	}
	return b.url("companies", c.ID)
}

// ldBraces hides template markup inside JSON strings; indented output never
// places two braces side by side on its own.
var ldBraces = strings.NewReplacer("{{", `{\u007b`, "}}", `}\u007d`)

// marshalLD renders v for a <script type="application/ld+json"> block. The
// encoder escapes <, > and & so data cannot close the script element.
func marshalLD(v any) string {
	out, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		return "{}"
	}
	return "  " + ldBraces.Replace(string(out))
}

package domain

import (
	"sort"
	"strconv"
)

type Country struct {
	ID    CountryID
	Title string
	Code  string
}

type Application struct {
	ID    ApplicationID
	Title string
	Code  string
}

type Catalog struct {
	Countries    map[CountryID]Country
	Applications map[ApplicationID]Application
}

// CountryName falls back to the numeric id when the catalog has no title.
func (c Catalog) CountryName(id CountryID) string {
	if country, ok := c.Countries[id]; ok && country.Title != "" {
		return country.Title
	}
	return strconv.Itoa(int(id))
}

func (c Catalog) ApplicationName(id ApplicationID) string {
	if app, ok := c.Applications[id]; ok && app.Title != "" {
		return app.Title
	}
	return strconv.Itoa(int(id))
}

func (c Catalog) IsEmpty() bool {
	return len(c.Countries) == 0 && len(c.Applications) == 0
}

func SortedCountries(countries map[CountryID]Country) []Country {
	list := make([]Country, 0, len(countries))
	for _, country := range countries {
		list = append(list, country)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func SortedApplications(apps map[ApplicationID]Application) []Application {
	list := make([]Application, 0, len(apps))
	for _, app := range apps {
		list = append(list, app)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

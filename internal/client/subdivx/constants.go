package subdivx

const (
	// searchQueryParameter carries the "{name} {id}" phrase.
	searchQueryParameter = "buscar"

	// resultDescriptionSelector matches the description block of every search result.
	resultDescriptionSelector = `div[id="buscador_detalle_sub"]`

	// downloadLinkSelector matches the download link inside the block after a description.
	downloadLinkSelector = `a[rel="nofollow"][target="new"]`
)

// fixedSearchParameters are sent with every search; they select subtitle-only results.
//
//nolint:gochecknoglobals // Read-only table of request parameters.
var fixedSearchParameters = [][2]string{
	{"accion", "5"},
	{"masdesc", ""},
	{"subtitulos", "1"},
	{"realiza_b", "1"},
	{"oxdown", "1"},
}

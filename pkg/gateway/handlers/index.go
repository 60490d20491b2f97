package handlers

import (
	"net/http"

	"github.com/coolcat-ia/barkeep/pkg/gateway/live/protocol"
)

// IndexHandler serves the GET / banner with the persona roster.
type IndexHandler struct {
	Characters CharacterSource
}

type indexCharacter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type indexResponse struct {
	Message             string           `json:"message"`
	AvailableCharacters []indexCharacter `json:"availableCharacters"`
	SupportedLanguages  []string         `json:"supportedLanguages"`
}

func (h IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	language := r.URL.Query().Get("language")
	if _, ok := protocol.SupportedLanguages[language]; !ok {
		language = protocol.DefaultLanguage
	}

	roster := h.Characters.List(language)
	listed := make([]indexCharacter, 0, len(roster))
	for _, c := range roster {
		listed = append(listed, indexCharacter{ID: c.ID, Name: c.Name})
	}

	writeJSON(w, http.StatusOK, indexResponse{
		Message:             "Cool Cat IA backend operativo",
		AvailableCharacters: listed,
		SupportedLanguages:  protocol.LanguageList(),
	})
}

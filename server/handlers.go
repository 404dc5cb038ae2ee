package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/willibrandon/nugetcompat/frameworks"
	"github.com/willibrandon/nugetcompat/observability"
	"github.com/willibrandon/nugetcompat/version"
)

// FrameworkResponse describes one parsed framework.
type FrameworkResponse struct {
	Identifier  string `json:"identifier"`
	Version     string `json:"version"`
	Profile     string `json:"profile,omitempty"`
	FullName    string `json:"full_name"`
	ShortName   string `json:"short_name"`
	Portable    bool   `json:"portable"`
	Unsupported bool   `json:"unsupported"`
}

// DecisionResponse is one compatibility decision.
type DecisionResponse struct {
	Package    string `json:"package"`
	Rule       string `json:"rule"`
	Compatible bool   `json:"compatible"`
}

// CompatibleResponse answers whether a project can consume any of the packages.
type CompatibleResponse struct {
	Project    string             `json:"project"`
	Compatible bool               `json:"compatible"`
	Decisions  []DecisionResponse `json:"decisions"`
}

// FolderResponse is the framework folder found at the start of a path.
type FolderResponse struct {
	Framework *FrameworkResponse `json:"framework"`
	Rest      string             `json:"rest"`
}

// RangeResponse describes a parsed version range.
type RangeResponse struct {
	Range        string   `json:"range"`
	Pretty       string   `json:"pretty"`
	MinVersion   string   `json:"min_version,omitempty"`
	MaxVersion   string   `json:"max_version,omitempty"`
	MinInclusive bool     `json:"min_inclusive"`
	MaxInclusive bool     `json:"max_inclusive"`
	Version      string   `json:"version,omitempty"`
	Satisfies    *bool    `json:"satisfies,omitempty"`
	SafeRange    string   `json:"safe_range,omitempty"`
	Spellings    []string `json:"spellings,omitempty"`
}

// ProfileResponse is one catalog profile.
type ProfileResponse struct {
	Name       string   `json:"name"`
	ShortName  string   `json:"short_name"`
	Frameworks []string `json:"frameworks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) frameworkResponse(fw *frameworks.NuGetFramework) *FrameworkResponse {
	if fw == nil {
		return nil
	}
	return &FrameworkResponse{
		Identifier:  fw.Identifier,
		Version:     fw.Version.String(),
		Profile:     fw.Profile,
		FullName:    fw.String(),
		ShortName:   s.engine.ShortName(fw),
		Portable:    fw.IsPortable(),
		Unsupported: fw.IsUnsupported(),
	}
}

func (s *Server) parseFramework(w http.ResponseWriter, name, value string) (*frameworks.NuGetFramework, bool) {
	if value == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing query parameter "+name))
		return nil, false
	}
	fw, err := s.engine.Parse(value)
	if err != nil {
		observability.RecordParseFailure("framework")
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	if fw.IsUnsupported() {
		observability.UnsupportedFrameworksTotal.Inc()
	}
	return fw, true
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	fw, ok := s.parseFramework(w, "moniker", r.URL.Query().Get("moniker"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.frameworkResponse(fw))
}

func (s *Server) handleShortName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing query parameter name"))
		return
	}
	fw, err := frameworks.ParseFullFrameworkName(name)
	if err != nil {
		observability.RecordParseFailure("framework")
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.frameworkResponse(fw))
}

func (s *Server) handleCompatible(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	project, ok := s.parseFramework(w, "project", q.Get("project"))
	if !ok {
		return
	}

	resp := CompatibleResponse{Project: s.engine.ShortName(project), Decisions: []DecisionResponse{}}
	packages := q["package"]
	if len(packages) == 0 {
		// An empty package list is compatible with every project
		resp.Compatible = true
	}
	for _, p := range packages {
		pkg, ok := s.parseFramework(w, "package", p)
		if !ok {
			return
		}
		d := s.engine.Explain(project, pkg)
		resp.Decisions = append(resp.Decisions, DecisionResponse{
			Package:    s.engine.ShortName(pkg),
			Rule:       d.Rule,
			Compatible: d.Compatible,
		})
		resp.Compatible = resp.Compatible || d.Compatible
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	project, ok := s.parseFramework(w, "project", q.Get("project"))
	if !ok {
		return
	}

	var candidates []*frameworks.NuGetFramework
	for _, c := range q["candidate"] {
		fw, ok := s.parseFramework(w, "candidate", c)
		if !ok {
			return
		}
		candidates = append(candidates, fw)
	}

	writeJSON(w, http.StatusOK, struct {
		Nearest *FrameworkResponse `json:"nearest"`
	}{s.frameworkResponse(s.engine.GetNearest(project, candidates))})
}

func (s *Server) handleFolder(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing query parameter path"))
		return
	}

	var fw *frameworks.NuGetFramework
	var rest string
	switch mode := q.Get("mode"); mode {
	case "", "file":
		fw, rest = s.engine.ParseFilePath(path)
	case "strict", "lenient":
		fw, rest = s.engine.ParseFolderName(path, mode == "strict")
	default:
		writeError(w, http.StatusBadRequest, errors.New("mode must be file, strict or lenient"))
		return
	}

	writeJSON(w, http.StatusOK, FolderResponse{Framework: s.frameworkResponse(fw), Rest: rest})
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	expr := q.Get("range")
	if expr == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing query parameter range"))
		return
	}

	ctx, span := observability.StartRangeSpan(r.Context(), expr)
	vr, err := version.ParseVersionRange(expr)
	observability.EndSpanWithError(span, err)
	if err != nil {
		observability.RecordParseFailure("range")
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := RangeResponse{
		Range:        vr.String(),
		Pretty:       vr.PrettyPrint(),
		MinVersion:   vr.MinVersion.String(),
		MaxVersion:   vr.MaxVersion.String(),
		MinInclusive: vr.MinInclusive,
		MaxInclusive: vr.MaxInclusive,
	}

	if vs := q.Get("version"); vs != "" {
		v, err := version.Parse(vs)
		if err != nil {
			observability.RecordParseFailure("version")
			writeError(w, http.StatusBadRequest, err)
			return
		}
		satisfies := vr.Satisfies(v)
		resp.Version = v.String()
		resp.Satisfies = &satisfies
		resp.SafeRange = version.GetSafeRange(v).String()
		for p := range version.GetPossibleVersions(v) {
			resp.Spellings = append(resp.Spellings, p.String())
		}
	}

	s.logger.DebugContext(ctx, "Evaluated range {Range}", resp.Range)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := s.engine.Catalog().Profiles()
	out := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		names := make([]string, len(p.Members))
		for i, m := range p.Members {
			names[i] = s.engine.ShortName(m)
		}
		out = append(out, ProfileResponse{
			Name:       p.Name,
			ShortName:  s.engine.ShortName(&frameworks.NuGetFramework{Identifier: frameworks.NetPortable, Profile: p.Name}),
			Frameworks: names,
		})
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(out)))
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

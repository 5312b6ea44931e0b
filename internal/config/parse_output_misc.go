package config

import "cuelang.org/go/cue"

func parseOutputSection(v cue.Value) Output {
	o := Output{ReportFile: "modules.json"}
	ov := v.LookupPath(cue.ParsePath("output"))
	if !ov.Exists() {
		return o
	}
	_ = decodeString(ov, "stubRoot", &o.StubRoot)
	_ = decodeString(ov, "reportFile", &o.ReportFile)
	return o
}

func parseGovernorSection(v cue.Value) Governor {
	var g Governor
	gv := v.LookupPath(cue.ParsePath("governor"))
	if !gv.Exists() {
		return g
	}
	_ = decodeInt(gv, "nestedThresholdBytes", &g.NestedThresholdBytes)
	return g
}

func parseCatalogSection(v cue.Value) CatalogRef {
	var c CatalogRef
	cv := v.LookupPath(cue.ParsePath("catalog"))
	if !cv.Exists() {
		return c
	}
	_ = decodeString(cv, "path", &c.Path)
	_ = decodeStringList(cv, "extraModules", &c.ExtraModules)
	return c
}

func parseArchiveSection(v cue.Value) Archive {
	var a Archive
	av := v.LookupPath(cue.ParsePath("archive"))
	if !av.Exists() {
		return a
	}
	_ = decodeBool(av, "enabled", &a.Enabled)
	_ = decodeString(av, "message", &a.Message)
	return a
}

func parseUISection(v cue.Value) UI {
	var u UI
	uv := v.LookupPath(cue.ParsePath("ui"))
	if !uv.Exists() {
		return u
	}
	_ = decodeBool(uv, "verbose", &u.Verbose)
	return u
}

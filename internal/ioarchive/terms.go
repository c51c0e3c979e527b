package ioarchive

import (
	v "github.com/gnames/gnnorm/pkg/ent/verbatim"
)

// classification terms share their names across all formats.
var classTerms = map[string]v.Term{
	"kingdom":     v.Kingdom,
	"phylum":      v.Phylum,
	"class":       v.Class,
	"order":       v.Order,
	"superfamily": v.Superfamily,
	"family":      v.Family,
	"subfamily":   v.Subfamily,
	"tribe":       v.Tribe,
}

var dwcTerms = map[string]v.Term{
	"taxonid":                  v.ID,
	"parentnameusageid":        v.ParentID,
	"acceptednameusageid":      v.AcceptedID,
	"originalnameusageid":      v.BasionymID,
	"scientificname":           v.ScientificName,
	"scientificnameauthorship": v.Authorship,
	"taxonrank":                v.Rank,
	"taxonomicstatus":          v.Status,
	"nomenclaturalcode":        v.Code,
	"genus":                    v.Genus,
	"genericname":              v.Genus,
	"subgenus":                 v.Subgenus,
	"infragenericepithet":      v.Subgenus,
	"specificepithet":          v.SpecificEpithet,
	"infraspecificepithet":     v.InfraspecificEpithet,
	"verbatimtaxonrank":        v.InfraspecificMarker,
	"taxonremarks":             v.Remarks,
	"coreid":                   v.TaxonID,
}

var coldpTerms = map[string]v.Term{
	"id":                   v.ID,
	"parentid":             v.ParentID,
	"nameid":               v.NameID,
	"taxonid":              v.TaxonID,
	"basionymid":           v.BasionymID,
	"relatednameid":        v.RelatedNameID,
	"type":                 v.RelationType,
	"referenceid":          v.ReferenceID,
	"scientificname":       v.ScientificName,
	"authorship":           v.Authorship,
	"rank":                 v.Rank,
	"status":               v.Status,
	"code":                 v.Code,
	"uninomial":            v.Uninomial,
	"genus":                v.Genus,
	"genericname":          v.Genus,
	"infragenericepithet":  v.Subgenus,
	"specificepithet":      v.SpecificEpithet,
	"infraspecificepithet": v.InfraspecificEpithet,
	"remarks":              v.Remarks,
}

// ACEF keeps species and infraspecies authors in separate columns.
const (
	acefAuthor      v.Term = "authorString"
	acefInfraAuthor v.Term = "infraspeciesAuthorString"
)

var acefTerms = map[string]v.Term{
	"acceptedtaxonid":           v.ID,
	"parentspeciesid":           v.ParentID,
	"genus":                     v.Genus,
	"subgenusname":              v.Subgenus,
	"species":                   v.SpecificEpithet,
	"authorstring":              acefAuthor,
	"infraspeciesepithet":       v.InfraspecificEpithet,
	"infraspecies":              v.InfraspecificEpithet,
	"infraspeciesauthorstring":  acefInfraAuthor,
	"infraspecificauthorstring": acefInfraAuthor,
	"infraspeciesmarker":        v.InfraspecificMarker,
	"infraspecificmarker":       v.InfraspecificMarker,
	"sp2000namestatus":          v.Status,
}

func lookup(tables ...map[string]v.Term) func(string) (v.Term, bool) {
	return func(key string) (v.Term, bool) {
		for _, tbl := range tables {
			if t, ok := tbl[key]; ok {
				return t, true
			}
		}
		return "", false
	}
}

// with overrides a mapping for a few keys specific to one file.
func with(base func(string) (v.Term, bool), extra map[string]v.Term) func(string) (v.Term, bool) {
	return func(key string) (v.Term, bool) {
		if t, ok := extra[key]; ok {
			return t, true
		}
		return base(key)
	}
}

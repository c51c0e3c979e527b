package iotesting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Archive maps file names to their content.
type Archive map[string]string

// WriteArchive writes archive files into a new temporary directory and
// returns its path.
func WriteArchive(t *testing.T, a Archive) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range a {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("cannot write fixture %s: %v", path, err)
		}
	}
	return dir
}

// TSV joins rows of fields into tab-separated text.
func TSV(rows ...[]string) string {
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(strings.Join(r, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ACEFSynonyms is an ACEF archive with three synonyms. Synonym 10 points
// to an existing taxon. Synonyms 11 and 12 point to missing taxa, and only
// 12 carries distribution and vernacular data of its own.
func ACEFSynonyms() Archive {
	return Archive{
		"AcceptedSpecies.txt": TSV(
			[]string{"AcceptedTaxonID", "Kingdom", "Phylum", "Class", "Order",
				"Superfamily", "Family", "Genus", "SubGenusName", "Species",
				"AuthorString", "Sp2000NameStatus"},
			[]string{"1", "Animalia", "Arthropoda", "Insecta", "Coleoptera",
				"", "Carabidae", "Carabus", "", "auratus", "Linnaeus, 1761",
				"accepted name"},
			[]string{"2", "Animalia", "Arthropoda", "Insecta", "Coleoptera",
				"", "Carabidae", "Carabus", "", "nemoralis", "O.F.Müller, 1764",
				"accepted name"},
		),
		"AcceptedInfraSpecificTaxa.txt": TSV(
			[]string{"AcceptedTaxonID", "ParentSpeciesID", "InfraSpeciesEpithet",
				"InfraSpeciesAuthorString", "InfraSpeciesMarker",
				"Sp2000NameStatus"},
			[]string{"3", "1", "lotharingus", "Dejean, 1826", "subsp.",
				"accepted name"},
		),
		"Synonyms.txt": TSV(
			[]string{"ID", "AcceptedTaxonID", "Genus", "SubGenusName", "Species",
				"AuthorString", "InfraSpecies", "InfraSpecificMarker",
				"InfraSpecificAuthorString", "Sp2000NameStatus"},
			[]string{"10", "1", "Carabus", "", "aureus", "Fabricius, 1775",
				"", "", "", "synonym"},
			[]string{"11", "999", "Carabus", "", "nitens", "Linnaeus, 1758",
				"", "", "", "synonym"},
			[]string{"12", "998", "Carabus", "", "splendens", "Olivier, 1790",
				"", "", "", "synonym"},
		),
		"Distribution.txt": TSV(
			[]string{"AcceptedTaxonID", "DistributionElement", "DistributionStatus"},
			[]string{"1", "Europe", "native"},
			[]string{"12", "Spain", "native"},
		),
		"CommonNames.txt": TSV(
			[]string{"AcceptedTaxonID", "CommonName", "Language"},
			[]string{"1", "Golden ground beetle", "English"},
			[]string{"12", "Cárabo", "Spanish"},
			[]string{"555", "Nobody", "English"},
		),
	}
}

// ColDPBasionyms is a ColDP archive with cyclic basionym groups: 1->2->1,
// 10->11->12->10 with 13->11 attached, 30->31->30 with the tail 33->32->30,
// and 40->41->42->40 with 45->41, 46->41 and 43->42 attached. Names 20 and
// 21 form an acyclic pair.
func ColDPBasionyms() Archive {
	return Archive{
		"NameUsage.tsv": TSV(
			[]string{"col:ID", "col:parentID", "col:status", "col:rank",
				"col:scientificName", "col:authorship", "col:basionymID"},
			[]string{"1", "", "accepted", "species", "Aus bus", "(L.) Smith", "2"},
			[]string{"2", "", "accepted", "species", "Cus bus", "L.", "1"},
			[]string{"10", "", "accepted", "species", "Aus dus", "(L.) Smith", "11"},
			[]string{"11", "", "accepted", "species", "Cus dus", "L.", "12"},
			[]string{"12", "", "accepted", "species", "Eus dus", "(L.) Jones", "10"},
			[]string{"13", "", "accepted", "species", "Fus dus", "(L.) Brown", "11"},
			[]string{"20", "", "accepted", "species", "Gus fus", "(L.) Brown", "21"},
			[]string{"21", "", "accepted", "species", "Hus fus", "L.", ""},
			[]string{"30", "", "accepted", "species", "Aus gus", "(L.) Smith", "31"},
			[]string{"31", "", "accepted", "species", "Cus gus", "L.", "30"},
			[]string{"32", "", "accepted", "species", "Eus gus", "(L.) Jones", "30"},
			[]string{"33", "", "accepted", "species", "Fus gus", "(L.) Brown", "32"},
			[]string{"40", "", "accepted", "species", "Aus hus", "(L.) Smith", "41"},
			[]string{"41", "", "accepted", "species", "Cus hus", "L.", "42"},
			[]string{"42", "", "accepted", "species", "Eus hus", "(L.) Jones", "40"},
			[]string{"43", "", "accepted", "species", "Fus hus", "(L.) Brown", "42"},
			[]string{"45", "", "accepted", "species", "Gus hus", "(L.) Green", "41"},
			[]string{"46", "", "accepted", "species", "Hus hus", "(L.) White", "41"},
		),
	}
}

// ColDPBasionymRefs is a ColDP archive with invalid basionym references
// and an acyclic chain 6->7->8. Name 1 refers to itself, name 2 to a
// missing name, and name 3 declares basionym 4 in its row and 5 in a name
// relation.
func ColDPBasionymRefs() Archive {
	return Archive{
		"NameUsage.tsv": TSV(
			[]string{"ID", "parentID", "status", "rank", "scientificName",
				"authorship", "basionymID"},
			[]string{"1", "", "accepted", "species", "Aus bus", "(L.) Smith", "1"},
			[]string{"2", "", "accepted", "species", "Aus cus", "(L.) Smith", "99"},
			[]string{"3", "", "accepted", "species", "Aus dus", "(L.) Smith", "4"},
			[]string{"4", "", "accepted", "species", "Bus dus", "L.", ""},
			[]string{"5", "", "accepted", "species", "Cus dus", "Mill.", ""},
			[]string{"6", "", "accepted", "species", "Aus eus", "(Jones) Smith", "7"},
			[]string{"7", "", "accepted", "species", "Bus eus", "(L.) Jones", "8"},
			[]string{"8", "", "accepted", "species", "Cus eus", "L.", ""},
		),
		"NameRelation.tsv": TSV(
			[]string{"nameID", "relatedNameID", "type"},
			[]string{"3", "5", "basionym"},
		),
	}
}

// ColDPLinks is a ColDP archive exercising parent and accepted references.
// Usage 4 has the synonym 3 as parent, 5 and 6 are each other's parents,
// id 7 is declared twice with different parents, synonym 8 points to the
// synonym 3, taxon 9 has a "Not assigned" family, and the misapplied name
// 10 points to two taxa.
func ColDPLinks() Archive {
	return Archive{
		"NameUsage.tsv": TSV(
			[]string{"ID", "parentID", "status", "rank", "scientificName",
				"authorship", "family"},
			[]string{"1", "", "accepted", "genus", "Aus", "Smith, 1900", ""},
			[]string{"2", "1", "accepted", "species", "Aus bus", "Smith, 1900", ""},
			[]string{"3", "2", "synonym", "species", "Aus cus", "Smith, 1901", ""},
			[]string{"4", "3", "accepted", "subspecies", "Aus bus minor", "Jones, 1950", ""},
			[]string{"5", "6", "accepted", "species", "Bus bus", "Brown, 1910", ""},
			[]string{"6", "5", "accepted", "species", "Bus cus", "Brown, 1911", ""},
			[]string{"7", "1", "accepted", "species", "Aus dus", "Smith, 1902", ""},
			[]string{"7", "2", "accepted", "species", "Aus eus", "Smith, 1903", ""},
			[]string{"8", "3", "synonym", "species", "Aus fus", "Smith, 1904", ""},
			[]string{"9", "", "accepted", "species", "Cus dus", "Jones, 1920", "Not assigned"},
		),
		"Synonym.tsv": TSV(
			[]string{"ID", "taxonID", "scientificName", "authorship", "status"},
			[]string{"10", "2|7", "Aus gus", "Smith, 1905", "misapplied"},
		),
	}
}

// ColDPSynonymChain is a ColDP archive where synonym s2 points to synonym
// s1, and s1 points to a missing taxon but carries a distribution. With
// reversed true s2 comes before s1.
func ColDPSynonymChain(reversed bool) Archive {
	s1 := []string{"s1", "999", "synonym", "species", "Aus cus", "Smith"}
	s2 := []string{"s2", "s1", "synonym", "species", "Aus dus", "Smith"}
	if reversed {
		s1, s2 = s2, s1
	}
	return Archive{
		"NameUsage.tsv": TSV(
			[]string{"ID", "parentID", "status", "rank", "scientificName",
				"authorship"},
			[]string{"t1", "", "accepted", "species", "Aus bus", "Smith"},
			s1,
			s2,
		),
		"Distribution.tsv": TSV(
			[]string{"taxonID", "area"},
			[]string{"s1", "Spain"},
		),
	}
}

// ColDPDuplicates is a ColDP archive with a duplicated id and a dangling
// parent reference.
func ColDPDuplicates() Archive {
	return Archive{
		"NameUsage.tsv": TSV(
			[]string{"ID", "parentID", "status", "rank", "scientificName",
				"authorship"},
			[]string{"1", "", "accepted", "genus", "Aus", "Smith, 1900"},
			[]string{"2", "1", "accepted", "species", "Aus bus", "Smith, 1900"},
			[]string{"2", "1", "accepted", "species", "Aus cus", "Smith, 1901"},
			[]string{"3", "2", "accepted", "subspecies", "Aus bus minor", "Jones, 1950"},
			[]string{"4", "77", "accepted", "species", "Aus dus", "Smith, 1902"},
			[]string{"5", "2", "synonym", "species", "Aus eus", "Brown, 1903"},
		),
	}
}

// ColDPNames is a ColDP archive with separate Name, Taxon and Synonym
// entities, a pro parte synonym and a name relation.
func ColDPNames() Archive {
	return Archive{
		"Name.csv": strings.Join([]string{
			"ID,scientificName,authorship,rank,code",
			"n1,Aus,Smith,genus,zoological",
			"n2,Aus bus,\"Smith, 1900\",species,zoological",
			"n3,Aus cus,\"Smith, 1901\",species,zoological",
			"n4,Bus bus,\"(Smith, 1900)\",species,zoological",
			"n5,Aus ?us,,species,",
			"",
		}, "\n"),
		"Taxon.csv": strings.Join([]string{
			"ID,parentID,nameID,family",
			"t1,,n1,Aidae",
			"t2,t1,n2,",
			"t3,t1,n3,",
			"",
		}, "\n"),
		"Synonym.csv": strings.Join([]string{
			"ID,taxonID,nameID,status",
			"s1,t2|t3,n4,synonym",
			"s2,t2,n5,",
			"",
		}, "\n"),
		"NameRelation.csv": strings.Join([]string{
			"nameID,relatedNameID,type",
			"n4,n2,basionym",
			"",
		}, "\n"),
	}
}

// DWCA is a Darwin Core archive with a descriptor, a vernacular
// extension and an extension the normalizer does not know.
func DWCA() Archive {
	meta := `<?xml version="1.0" encoding="UTF-8"?>
<archive xmlns="http://rs.tdwg.org/dwc/text/" metadata="eml.xml">
  <core encoding="UTF-8" fieldsTerminatedBy="\t" linesTerminatedBy="\n"
        fieldsEnclosedBy="" ignoreHeaderLines="1"
        rowType="http://rs.tdwg.org/dwc/terms/Taxon">
    <files><location>taxa.txt</location></files>
    <id index="0"/>
    <field index="0" term="http://rs.tdwg.org/dwc/terms/taxonID"/>
    <field index="1" term="http://rs.tdwg.org/dwc/terms/parentNameUsageID"/>
    <field index="2" term="http://rs.tdwg.org/dwc/terms/acceptedNameUsageID"/>
    <field index="3" term="http://rs.tdwg.org/dwc/terms/scientificName"/>
    <field index="4" term="http://rs.tdwg.org/dwc/terms/taxonRank"/>
    <field index="5" term="http://rs.tdwg.org/dwc/terms/taxonomicStatus"/>
    <field term="http://rs.tdwg.org/dwc/terms/kingdom" default="Plantae"/>
    <field term="http://rs.tdwg.org/dwc/terms/nomenclaturalCode" default="ICN"/>
  </core>
  <extension encoding="UTF-8" fieldsTerminatedBy="\t" linesTerminatedBy="\n"
        fieldsEnclosedBy="" ignoreHeaderLines="1"
        rowType="http://rs.gbif.org/terms/1.0/VernacularName">
    <files><location>vernacular.txt</location></files>
    <coreid index="0"/>
    <field index="1" term="http://rs.tdwg.org/dwc/terms/vernacularName"/>
    <field index="2" term="http://purl.org/dc/terms/language"/>
  </extension>
  <extension encoding="UTF-8" fieldsTerminatedBy="\t" ignoreHeaderLines="1"
        rowType="http://rs.gbif.org/terms/1.0/SpeciesProfile">
    <files><location>profile.txt</location></files>
    <coreid index="0"/>
  </extension>
</archive>
`
	return Archive{
		"meta.xml": meta,
		"taxa.txt": TSV(
			[]string{"taxonID", "parentNameUsageID", "acceptedNameUsageID",
				"scientificName", "taxonRank", "taxonomicStatus"},
			[]string{"1", "", "", "Rosaceae", "family", "accepted"},
			[]string{"2", "1", "", "Rosa L.", "genus", "accepted"},
			[]string{"3", "2", "", "Rosa canina L.", "species", "accepted"},
			[]string{"4", "", "3", "Rosa \"dumalis\" Bechst.", "species", "synonym"},
		),
		"vernacular.txt": TSV(
			[]string{"taxonID", "vernacularName", "language"},
			[]string{"3", "Dog rose", "en"},
		),
		"profile.txt": TSV(
			[]string{"taxonID", "habitat"},
			[]string{"3", "hedges"},
		),
	}
}

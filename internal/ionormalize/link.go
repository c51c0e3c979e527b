package ionormalize

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnnorm/pkg/ent/issue"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
	"github.com/gnames/gnnorm/pkg/graph"
	"github.com/gnames/gnnorm/pkg/interpret"
)

// incertaeSedis is the name of the synthesized root for unplaced taxa.
const incertaeSedis = "Incertae sedis"

// link resolves parent and accepted references of usages, attaches
// extension data and collects basionym references from name relations.
// It polls for cancellation every cancel_interval usages.
func (r *run) link(ctx context.Context) error {
	total := r.g.Len()
	bar := r.progressBar(len(r.usages), "Linking usages: ")
	defer finishBar(bar)

	moved := make(map[string]int)
	if err := r.migrateSynonyms(ctx, moved); err != nil {
		return err
	}
	for idx := range total {
		if err := r.checkCancel(ctx, idx, "link"); err != nil {
			return err
		}
		u, ok := r.usages[idx]
		if !ok {
			continue
		}
		if bar != nil {
			bar.Increment()
		}

		n := r.g.Node(idx)
		if n.Deleted {
			continue
		}
		var err error
		switch {
		case n.DuplicateOf != "":
			r.checkRefs(n, u)
		case n.Label == graph.Synonym:
			err = r.linkSynonym(n, u, moved)
		default:
			err = r.linkParent(n, u, moved)
		}
		if err != nil {
			return err
		}
	}

	r.linkRelations()
	r.attachData(moved)

	slog.Info("Usages linked",
		"dataset_key", r.key,
		"parent_of", humanize.Comma(int64(countRels(r.g, graph.ParentOf))),
		"synonym_of", humanize.Comma(int64(countRels(r.g, graph.SynonymOf))),
	)
	return nil
}

// usageByID finds a live usage, or the implicit taxon that replaced a
// synonym.
func (r *run) usageByID(id string, moved map[string]int) (int, bool) {
	if n, ok := r.g.ByID(graph.UsageNode, id); ok {
		return n.Idx, true
	}
	idx, ok := moved[id]
	return idx, ok
}

func (r *run) flag(n *graph.Node, ii ...issue.Issue) {
	r.vs.AddIssues(n.VerbatimKey, ii...)
}

func (r *run) linkParent(n *graph.Node, u *interpret.Usage, moved map[string]int) error {
	if u.ParentID == "" {
		return nil
	}
	p, ok := r.usageByID(u.ParentID, moved)
	if !ok {
		r.flag(n, issue.ParentIDInvalid)
		return r.placeIncertae(n.Idx)
	}

	if pn := r.g.Node(p); pn.Label == graph.Synonym {
		r.flag(n, issue.ParentIsSynonym)
		taxa, _, _ := r.acceptedTaxa(r.usages[p], p, moved)
		if len(taxa) == 0 {
			r.flag(n, issue.ParentIDInvalid)
			return r.placeIncertae(n.Idx)
		}
		p = taxa[0]
	}

	if p == n.Idx || r.g.IsAncestor(n.Idx, p) {
		r.flag(n, issue.ParentCycle)
		return nil
	}
	_, err := r.g.AddRel(graph.ParentOf, p, n.Idx)
	if errors.Is(err, graph.ErrConflictingParent) {
		r.flag(n, issue.ConflictingParent)
		return nil
	}
	if err != nil {
		return LinkError(r.key, n.ID, err)
	}
	return nil
}

func (r *run) linkSynonym(n *graph.Node, u *interpret.Usage, moved map[string]int) error {
	taxa, invalid, chained := r.acceptedTaxa(u, n.Idx, moved)
	if invalid || len(taxa) == 0 {
		r.flag(n, issue.AcceptedIDInvalid)
	}
	if chained && len(taxa) > 0 {
		r.flag(n, issue.AcceptedIsSynonym)
	}

	if len(taxa) == 0 {
		// dropped, its name stays as a bare name
		if err := r.g.DeleteNode(n.Idx); err != nil {
			return LinkError(r.key, n.ID, err)
		}
		return nil
	}

	for _, t := range taxa {
		if _, err := r.g.AddRel(graph.SynonymOf, n.Idx, t); err != nil {
			return LinkError(r.key, n.ID, err)
		}
	}
	if len(taxa) > 1 && n.Status != nomen.Misapplied {
		n.Status = nomen.AmbiguousSynonym
	}
	return nil
}

// migrateSynonyms replaces synonyms that resolve to no taxon but carry
// extension data or a classification with implicit taxa. It runs before
// any link is made, so references to such synonyms resolve the same way
// whatever the row order.
//
// A candidate waits while its accepted chain reaches another candidate,
// since that one becomes a taxon it can link to. Candidates that only
// reach each other migrate together.
func (r *run) migrateSynonyms(ctx context.Context, moved map[string]int) error {
	var syns []int
	for idx := range r.g.Len() {
		u, ok := r.usages[idx]
		if !ok {
			continue
		}
		n := r.g.Node(idx)
		if n.Deleted || n.DuplicateOf != "" || n.Label != graph.Synonym {
			continue
		}
		if len(r.extensions[n.ID]) == 0 && len(u.Classification) == 0 {
			continue
		}
		syns = append(syns, idx)
	}

	for len(syns) > 0 {
		cand := make(map[int]struct{})
		for i, idx := range syns {
			if err := r.checkCancel(ctx, i, "link"); err != nil {
				return err
			}
			w := r.walkAccepted(r.usages[idx], idx, moved)
			if len(w.taxa) == 0 {
				cand[idx] = struct{}{}
			}
		}
		if len(cand) == 0 {
			return nil
		}

		var ready []int
		for _, idx := range syns {
			if _, ok := cand[idx]; !ok {
				continue
			}
			w := r.walkAccepted(r.usages[idx], idx, moved)
			if !w.reaches(cand) {
				ready = append(ready, idx)
			}
		}
		if len(ready) == 0 {
			for _, idx := range syns {
				if _, ok := cand[idx]; ok {
					ready = append(ready, idx)
				}
			}
		}

		for _, idx := range ready {
			if err := r.implicitTaxon(r.g.Node(idx), r.usages[idx], moved); err != nil {
				return err
			}
		}

		var rest []int
		for _, idx := range syns {
			if !r.g.Node(idx).Deleted {
				rest = append(rest, idx)
			}
		}
		syns = rest
	}
	return nil
}

// implicitTaxon replaces a synonym with a synthetic accepted taxon that
// keeps its name, classification and data.
func (r *run) implicitTaxon(n *graph.Node, u *interpret.Usage, moved map[string]int) error {
	t, _, err := r.g.AddNode(graph.UsageNode, "")
	if err != nil {
		return LinkError(r.key, n.ID, err)
	}
	t.Label = graph.Taxon
	t.Status = nomen.Accepted
	t.Synthetic = true
	t.VerbatimKey = n.VerbatimKey
	r.g.SetUsageName(t.Idx, n.NameIdx)
	r.usages[t.Idx] = &interpret.Usage{
		Status:         nomen.Accepted,
		Classification: u.Classification,
		Code:           u.Code,
	}
	moved[n.ID] = t.Idx
	r.flag(n, issue.AcceptedIDInvalid, issue.SynonymDataMoved)

	if err = r.g.DeleteNode(n.Idx); err != nil {
		return LinkError(r.key, n.ID, err)
	}
	return nil
}

// acceptedTaxa resolves accepted ids of a usage to taxa. References to
// synonyms are followed to their own accepted taxa, chained is true when
// that happened. Invalid is true when some id does not resolve.
func (r *run) acceptedTaxa(
	u *interpret.Usage,
	self int,
	moved map[string]int,
) (taxa []int, invalid, chained bool) {
	w := r.walkAccepted(u, self, moved)
	return w.taxa, w.invalid, len(w.synonyms) > 0
}

type acceptedWalk struct {
	taxa     []int
	synonyms []int
	invalid  bool
}

func (w acceptedWalk) reaches(set map[int]struct{}) bool {
	for _, idx := range w.synonyms {
		if _, ok := set[idx]; ok {
			return true
		}
	}
	return false
}

// walkAccepted follows accepted ids depth first, collecting the taxa it
// ends on and the synonyms it passes.
func (r *run) walkAccepted(
	u *interpret.Usage,
	self int,
	moved map[string]int,
) acceptedWalk {
	var res acceptedWalk
	if u == nil {
		return res
	}
	seen := map[int]struct{}{self: {}}
	var stack []int
	for i := len(u.AcceptedIDs) - 1; i >= 0; i-- {
		idx, ok := r.usageByID(u.AcceptedIDs[i], moved)
		if !ok {
			res.invalid = true
			continue
		}
		stack = append(stack, idx)
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}

		n := r.g.Node(cur)
		if n.Label != graph.Synonym {
			res.taxa = append(res.taxa, cur)
			continue
		}
		res.synonyms = append(res.synonyms, cur)
		su := r.usages[cur]
		if su == nil {
			continue
		}
		for i := len(su.AcceptedIDs) - 1; i >= 0; i-- {
			if idx, ok := r.usageByID(su.AcceptedIDs[i], moved); ok {
				stack = append(stack, idx)
			}
		}
	}
	return res
}

// checkRefs flags invalid references of a duplicate usage. Duplicates do
// not change the graph, they are pruned later. A duplicate declaring
// another parent than the first row with its id loses, the first wins.
func (r *run) checkRefs(n *graph.Node, u *interpret.Usage) {
	if u.ParentID != "" {
		if _, ok := r.g.ByID(graph.UsageNode, u.ParentID); !ok {
			r.flag(n, issue.ParentIDInvalid)
		} else if p := r.parentOf(n.DuplicateOf); p != "" && p != u.ParentID {
			r.flag(n, issue.ConflictingParent)
		}
	}
	if n.Label != graph.Synonym {
		return
	}
	var found bool
	for _, id := range u.AcceptedIDs {
		if _, ok := r.g.ByID(graph.UsageNode, id); ok {
			found = true
		}
	}
	if !found {
		r.flag(n, issue.AcceptedIDInvalid)
	}
}

// parentOf returns the declared parent id of the usage with the given id.
func (r *run) parentOf(id string) string {
	n, ok := r.g.ByID(graph.UsageNode, id)
	if !ok {
		return ""
	}
	if u := r.usages[n.Idx]; u != nil {
		return u.ParentID
	}
	return ""
}

// placeIncertae attaches a taxon to the synthesized incertae sedis root.
func (r *run) placeIncertae(idx int) error {
	if r.incertae < 0 {
		rn := nomen.RankedName{Rank: nomen.Unranked, Name: incertaeSedis}
		root, err := r.higherTaxon(rn, r.intr.HigherName(rn, nomen.UnknownCode))
		if err != nil {
			return err
		}
		r.incertae = root
	}
	if _, err := r.g.AddRel(graph.ParentOf, r.incertae, idx); err != nil {
		return LinkError(r.key, r.g.Node(idx).ID, err)
	}
	return nil
}

// higherTaxon creates a synthetic taxon with its name.
func (r *run) higherTaxon(rn nomen.RankedName, name *nomen.Name) (int, error) {
	nn, _, err := r.g.AddNode(graph.NameNode, "")
	if err != nil {
		return -1, LinkError(r.key, rn.Name, err)
	}
	r.g.SetName(nn.Idx, name)
	un, _, err := r.g.AddNode(graph.UsageNode, "")
	if err != nil {
		return -1, LinkError(r.key, rn.Name, err)
	}
	un.Label = graph.Taxon
	un.Status = nomen.Accepted
	un.Synthetic = true
	nn.Synthetic = true
	r.g.SetUsageName(un.Idx, nn.Idx)
	return un.Idx, nil
}

// linkRelations turns basionym and replacement name relations into
// basionym references.
func (r *run) linkRelations() {
	for _, key := range r.relations {
		rec := r.vs.Get(key)
		typ := strings.ToLower(rec.Get(verbatim.RelationType))
		if !strings.Contains(typ, "basionym") && !strings.Contains(typ, "replacement") {
			continue
		}
		n, ok := r.g.ByID(graph.NameNode, rec.Get(verbatim.NameID))
		if !ok {
			r.vs.AddIssues(key, issue.BasionymIDInvalid)
			continue
		}
		r.basionymRefs = append(r.basionymRefs, basionymRef{
			nameIdx: n.Idx,
			id:      rec.Get(verbatim.RelatedNameID),
			key:     key,
		})
	}
}

// attachData attaches extension rows to their taxa. Data of a synonym
// with an accepted taxon moves to the first accepted taxon.
func (r *run) attachData(moved map[string]int) {
	for _, tid := range r.extOrder {
		keys := r.extensions[tid]
		idx, ok := r.usageByID(tid, moved)
		if !ok {
			for _, k := range keys {
				r.vs.AddIssues(k, issue.TaxonIDInvalid)
			}
			continue
		}
		n := r.g.Node(idx)
		if n.Label == graph.Synonym {
			if acc := r.g.Accepted(idx); len(acc) > 0 {
				r.flag(n, issue.SynonymDataMoved)
				n = r.g.Node(acc[0])
			}
		}
		n.Data = append(n.Data, keys...)
	}
}

func countRels(g *graph.Graph, t graph.RelType) int {
	var res int
	for range g.Rels(t) {
		res++
	}
	return res
}

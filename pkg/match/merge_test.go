package match_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/crewmatchco/crewmatch/pkg/match"
	"github.com/crewmatchco/crewmatch/pkg/vector"
)

func hit(id string, score float32) vector.QueryResult {
	return vector.QueryResult{
		Document: vector.Document{ID: id},
		Score:    score,
	}
}

var _ = Describe("Merge", func() {
	opts := match.MergeOptions{
		TopK:         10,
		DenseWeight:  match.DefaultDenseWeight,
		SparseWeight: match.DefaultSparseWeight,
	}

	It("blends normalized component scores with the configured weights", func() {
		// The anchor hits pin normalization so EMP-1001 lands at 0.9
		// dense / 0.4 sparse and EMP-1002 at 0.5 dense / 0.9 sparse.
		dense := []vector.QueryResult{
			hit("EMP-9999", 1.0),
			hit("EMP-1001", 0.9),
			hit("EMP-1002", 0.5),
			hit("EMP-0000", 0.0),
		}
		sparse := []vector.QueryResult{
			hit("EMP-9999", 1.0),
			hit("EMP-1002", 0.9),
			hit("EMP-1001", 0.4),
			hit("EMP-0000", 0.0),
		}

		merged := match.Merge(dense, sparse, opts)
		Expect(merged).To(HaveLen(4))

		byID := map[string]match.MatchResult{}
		for _, m := range merged {
			byID[m.CandidateID] = m
		}

		Expect(byID["EMP-1001"].CombinedScore).To(BeNumerically("~", 0.70, 1e-9))
		Expect(byID["EMP-1002"].CombinedScore).To(BeNumerically("~", 0.66, 1e-9))

		// EMP-1001 outranks EMP-1002 despite the lower sparse score.
		Expect(merged[1].CandidateID).To(Equal("EMP-1001"))
		Expect(merged[2].CandidateID).To(Equal("EMP-1002"))
	})

	It("counts a candidate in both lists once, with both components", func() {
		dense := []vector.QueryResult{
			hit("EMP-1001", 0.9),
			hit("EMP-1002", 0.1),
		}
		sparse := []vector.QueryResult{
			hit("EMP-1001", 0.8),
			hit("EMP-1003", 0.2),
		}

		merged := match.Merge(dense, sparse, opts)
		Expect(merged).To(HaveLen(3))
		Expect(merged[0].CandidateID).To(Equal("EMP-1001"))
		Expect(merged[0].DenseScore).To(BeNumerically("~", 1.0))
		Expect(merged[0].SparseScore).To(BeNumerically("~", 1.0))
	})

	It("scores a candidate missing from one list with 0 for that component", func() {
		dense := []vector.QueryResult{
			hit("EMP-1001", 0.9),
			hit("EMP-1002", 0.3),
		}
		sparse := []vector.QueryResult{}

		merged := match.Merge(dense, sparse, opts)
		Expect(merged).To(HaveLen(2))
		for _, m := range merged {
			Expect(m.SparseScore).To(BeZero())
		}
		Expect(merged[0].CombinedScore).To(BeNumerically("~", 0.6, 1e-9))
	})

	It("normalizes a single-hit list to 1.0", func() {
		merged := match.Merge([]vector.QueryResult{hit("EMP-1001", 0.123)}, nil, opts)
		Expect(merged).To(HaveLen(1))
		Expect(merged[0].DenseScore).To(Equal(1.0))
	})

	It("breaks combined-score ties by dense score, then candidate ID", func() {
		// Both candidates combine to the same score, EMP-1002 with the
		// higher dense half.
		dense := []vector.QueryResult{
			hit("EMP-1002", 1.0),
			hit("EMP-1001", 0.0),
		}
		sparse := []vector.QueryResult{
			hit("EMP-1001", 1.0),
			hit("EMP-1002", 0.0),
		}

		merged := match.Merge(dense, sparse, match.MergeOptions{TopK: 10, DenseWeight: 0.5, SparseWeight: 0.5})
		Expect(merged[0].CandidateID).To(Equal("EMP-1002"))
		Expect(merged[1].CandidateID).To(Equal("EMP-1001"))

		// Identical components left and right: ID ascending decides.
		same := match.Merge(
			[]vector.QueryResult{hit("EMP-1005", 0.5), hit("EMP-1004", 0.5)},
			nil,
			opts,
		)
		Expect(same[0].CandidateID).To(Equal("EMP-1004"))
		Expect(same[1].CandidateID).To(Equal("EMP-1005"))
	})

	It("is deterministic across repeated merges of the same input", func() {
		dense := []vector.QueryResult{
			hit("EMP-1003", 0.7),
			hit("EMP-1001", 0.7),
			hit("EMP-1002", 0.7),
		}
		sparse := []vector.QueryResult{
			hit("EMP-1002", 0.4),
			hit("EMP-1004", 0.4),
		}

		first := match.Merge(dense, sparse, opts)
		for i := 0; i < 20; i++ {
			Expect(match.Merge(dense, sparse, opts)).To(Equal(first))
		}
	})

	It("truncates to TopK after ranking", func() {
		dense := []vector.QueryResult{
			hit("EMP-1001", 0.9),
			hit("EMP-1002", 0.8),
			hit("EMP-1003", 0.7),
			hit("EMP-1004", 0.6),
		}

		merged := match.Merge(dense, nil, match.MergeOptions{TopK: 2, DenseWeight: 0.6, SparseWeight: 0.4})
		Expect(merged).To(HaveLen(2))
		Expect(merged[0].CandidateID).To(Equal("EMP-1001"))
		Expect(merged[1].CandidateID).To(Equal("EMP-1002"))
	})

	It("keeps the best-ranked score for duplicate IDs within one list", func() {
		dense := []vector.QueryResult{
			hit("EMP-1001", 0.9),
			hit("EMP-1001", 0.2),
			hit("EMP-1002", 0.0),
		}

		merged := match.Merge(dense, nil, opts)
		Expect(merged).To(HaveLen(2))
		Expect(merged[0].CandidateID).To(Equal("EMP-1001"))
		Expect(merged[0].DenseScore).To(Equal(1.0))
	})
})

var _ = Describe("MatchedSkills", func() {
	It("matches multi-word skills against the requirement summary", func() {
		terms := []string{
			"backend, go",
			"Backend Engineer",
			"Senior backend engineer, distributed systems",
		}
		matched := match.MatchedSkills(terms, []string{"distributed systems", "go"})
		Expect(matched).To(Equal([]string{"distributed systems", "go"}))
	})

	It("returns no evidence when nothing overlaps", func() {
		matched := match.MatchedSkills([]string{"python, django"}, []string{"java"})
		Expect(matched).To(BeEmpty())
	})

	It("does not match a skill embedded in a longer term", func() {
		matched := match.MatchedSkills([]string{"javascript, react"}, []string{"java"})
		Expect(matched).To(BeEmpty())
	})

	It("requires the full token sequence of a multi-word skill", func() {
		matched := match.MatchedSkills(
			[]string{"systems engineer, distributed teams"},
			[]string{"distributed systems"},
		)
		Expect(matched).To(BeEmpty())
	})

	It("matches case-insensitively against the terms", func() {
		matched := match.MatchedSkills([]string{"KUBERNETES and Go"}, []string{"kubernetes"})
		Expect(matched).To(Equal([]string{"kubernetes"}))
	})

	It("returns evidence sorted", func() {
		matched := match.MatchedSkills([]string{"go kubernetes aws"}, []string{"kubernetes", "aws", "go"})
		Expect(matched).To(Equal([]string{"aws", "go", "kubernetes"}))
	})
})

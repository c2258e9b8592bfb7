package ingest_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/crewmatchco/crewmatch/pkg/candidate"
	"github.com/crewmatchco/crewmatch/pkg/ingest"
	testutils "github.com/crewmatchco/crewmatch/pkg/utils/test"
)

// recordingProfiles captures profile saves for assertions.
type recordingProfiles struct {
	saved []*candidate.Record
	err   error
}

func (p *recordingProfiles) Save(_ context.Context, records []*candidate.Record) error {
	if p.err != nil {
		return p.err
	}
	p.saved = append(p.saved, records...)
	return nil
}

func testCandidate(id string) *candidate.Record {
	return &candidate.Record{
		EmployeeID:        id,
		Name:              "Asha Rao",
		Location:          "pune",
		ExperienceYears:   7,
		CurrentRole:       "Senior Backend Engineer",
		Skills:            []string{"go", "kubernetes"},
		ProjectExperience: "Built payment rails in Go.",
	}
}

var _ = Describe("Ingestor", func() {
	var (
		experience *testutils.MockIndex
		skillsIdx  *testutils.MockIndex
		embedder   *testutils.MockEmbedder
		profiles   *recordingProfiles
		ingestor   *ingest.Ingestor
		ctx        context.Context
	)

	BeforeEach(func() {
		experience = testutils.NewMockIndex("resume-experience")
		skillsIdx = testutils.NewMockIndex("resume-skills")
		embedder = testutils.NewMockEmbedder()
		profiles = &recordingProfiles{}
		ctx = context.Background()

		var err error
		ingestor, err = ingest.NewIngestor(ingest.Config{
			Experience: experience,
			Skills:     skillsIdx,
			Embedder:   embedder,
			Profiles:   profiles,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("writes each record to both indices and the profile store", func() {
		report := ingestor.UpsertBatch(ctx, []*candidate.Record{
			testCandidate("EMP-1001"),
			testCandidate("EMP-1002"),
		})

		Expect(report.Upserted).To(Equal(2))
		Expect(report.Partial).To(BeZero())
		Expect(report.Failed).To(BeZero())

		Expect(experience.StoredCount()).To(Equal(2))
		Expect(skillsIdx.StoredCount()).To(Equal(2))
		Expect(profiles.saved).To(HaveLen(2))

		doc, ok := experience.Stored("EMP-1001")
		Expect(ok).To(BeTrue())
		Expect(doc.Dense).NotTo(BeEmpty())
		Expect(doc.Metadata["location"]).To(Equal("pune"))
		Expect(doc.Metadata["text"]).To(Equal("Built payment rails in Go."))

		doc, ok = skillsIdx.Stored("EMP-1001")
		Expect(ok).To(BeTrue())
		Expect(doc.Sparse).NotTo(BeNil())
		Expect(doc.Metadata["text"]).To(Equal("go, kubernetes"))
	})

	It("is idempotent: re-upserting an ID overwrites in place", func() {
		rec := testCandidate("EMP-1001")
		ingestor.UpsertBatch(ctx, []*candidate.Record{rec})

		rec.ProjectExperience = "Rewrote the billing system."
		report := ingestor.UpsertBatch(ctx, []*candidate.Record{rec})
		Expect(report.Upserted).To(Equal(1))

		Expect(experience.StoredCount()).To(Equal(1))
		doc, _ := experience.Stored("EMP-1001")
		Expect(doc.Metadata["text"]).To(Equal("Rewrote the billing system."))
	})

	It("falls back to role and skills text when the resume has no project section", func() {
		rec := testCandidate("EMP-1001")
		rec.ProjectExperience = ""

		report := ingestor.UpsertBatch(ctx, []*candidate.Record{rec})
		Expect(report.Upserted).To(Equal(1))

		doc, _ := experience.Stored("EMP-1001")
		Expect(doc.Metadata["text"]).To(Equal("Senior Backend Engineer. go, kubernetes"))
	})

	It("reports a half-failed record as partially upserted", func() {
		skillsIdx.UpsertErr = errors.New("index unavailable")

		report := ingestor.UpsertBatch(ctx, []*candidate.Record{testCandidate("EMP-1001")})
		Expect(report.Partial).To(Equal(1))

		rr := report.Records[0]
		Expect(rr.Status).To(Equal(ingest.PartiallyUpserted))
		Expect(rr.FailedIndex).To(Equal("resume-skills"))
		Expect(rr.Error).To(ContainSubstring("index unavailable"))

		// The successful half stays written; the profile row is kept too.
		Expect(experience.StoredCount()).To(Equal(1))
		Expect(profiles.saved).To(HaveLen(1))
	})

	It("reports both halves failing as failed and skips the profile row", func() {
		experience.UpsertErr = errors.New("down")
		skillsIdx.UpsertErr = errors.New("down")

		report := ingestor.UpsertBatch(ctx, []*candidate.Record{testCandidate("EMP-1001")})
		Expect(report.Failed).To(Equal(1))
		Expect(report.Records[0].Status).To(Equal(ingest.Failed))
		Expect(profiles.saved).To(BeEmpty())
	})

	It("continues past a failed record", func() {
		embedder.FailOn = "Built payment rails in Go."

		bad := testCandidate("EMP-1001")
		good := testCandidate("EMP-1002")
		good.ProjectExperience = "Different text."

		report := ingestor.UpsertBatch(ctx, []*candidate.Record{bad, good})
		Expect(report.Records[0].Status).To(Equal(ingest.PartiallyUpserted))
		Expect(report.Records[1].Status).To(Equal(ingest.Upserted))
	})

	It("requires both index handles", func() {
		_, err := ingest.NewIngestor(ingest.Config{
			Experience: experience,
			Embedder:   embedder,
		})
		Expect(err).To(HaveOccurred())
	})
})

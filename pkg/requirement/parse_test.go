package requirement_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/crewmatchco/crewmatch/pkg/requirement"
)

const batchCSV = `Requirement ID,Job Title,Role Level,Industry,Work Location,Summary
REQ-001,Backend Engineer,senior,Fintech,Pune,"Senior backend engineer, distributed systems"
REQ-002,Data Engineer,mid,Retail,Mumbai,Pipelines in Spark
REQ-003,,junior,,Pune,Entry level role
`

var _ = Describe("ParseCSV", func() {
	It("parses records in file order", func() {
		batch, err := requirement.ParseCSV(strings.NewReader(batchCSV))
		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Rejects).To(BeEmpty())
		Expect(batch.Records).To(HaveLen(3))

		Expect(batch.Records[0].RequirementID).To(Equal("REQ-001"))
		Expect(batch.Records[0].Summary).To(Equal("Senior backend engineer, distributed systems"))
		Expect(batch.Records[1].RequirementID).To(Equal("REQ-002"))

		// Job Title and Industry are advisory and may be blank.
		Expect(batch.Records[2].JobTitle).To(BeEmpty())
	})

	It("quarantines rows missing required values", func() {
		csv := "Requirement ID,Job Title,Role Level,Industry,Work Location,Summary\n" +
			"REQ-001,Engineer,senior,Fintech,Pune,\n" +
			"REQ-002,Engineer,senior,Fintech,Pune,Fine summary\n"

		batch, err := requirement.ParseCSV(strings.NewReader(csv))
		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Records).To(HaveLen(1))
		Expect(batch.Rejects).To(HaveLen(1))
		Expect(batch.Rejects[0].RowIndex).To(Equal(2))
		Expect(batch.Rejects[0].Err.Error()).To(ContainSubstring("Summary"))
	})

	It("quarantines duplicate requirement IDs, keeping the first", func() {
		csv := "Requirement ID,Job Title,Role Level,Industry,Work Location,Summary\n" +
			"REQ-001,Engineer,senior,Fintech,Pune,First\n" +
			"REQ-001,Engineer,senior,Fintech,Pune,Second\n"

		batch, err := requirement.ParseCSV(strings.NewReader(csv))
		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Records).To(HaveLen(1))
		Expect(batch.Records[0].Summary).To(Equal("First"))
		Expect(batch.Rejects).To(HaveLen(1))
		Expect(batch.Rejects[0].Err.Error()).To(ContainSubstring("duplicate"))
	})

	It("rejects a file missing a required column", func() {
		csv := "Requirement ID,Summary\nREQ-001,Something\n"
		_, err := requirement.ParseCSV(strings.NewReader(csv))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("must contain column"))
	})

	It("rejects an empty file", func() {
		_, err := requirement.ParseCSV(strings.NewReader(""))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ParseFile", func() {
	It("rejects unsupported file types", func() {
		_, err := requirement.ParseFile("reqs.json", strings.NewReader("{}"))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unsupported"))
	})
})

var _ = Describe("Filter", func() {
	It("always filters on lower-cased location", func() {
		r := requirement.Record{WorkLocation: " Pune ", RoleLevel: "unknown"}
		f := r.Filter()
		Expect(f["location"]).To(Equal(map[string]any{"$eq": "pune"}))
		Expect(f).NotTo(HaveKey("experience"))
	})

	It("maps role levels to experience bands", func() {
		junior := requirement.Record{WorkLocation: "Pune", RoleLevel: "Junior"}
		Expect(junior.Filter()["experience"]).To(Equal(map[string]any{"$lte": 2}))

		mid := requirement.Record{WorkLocation: "Pune", RoleLevel: "mid"}
		Expect(mid.Filter()["experience"]).To(Equal(map[string]any{"$gt": 2, "$lt": 5}))

		senior := requirement.Record{WorkLocation: "Pune", RoleLevel: "SR"}
		Expect(senior.Filter()["experience"]).To(Equal(map[string]any{"$gte": 5}))
	})
})

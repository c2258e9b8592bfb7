package candidate_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/crewmatchco/crewmatch/pkg/candidate"
)

func validRow() candidate.Row {
	return candidate.Row{
		Index:      2,
		EmployeeID: "EMP-1001",
		Name:       "Asha Rao",
		Location:   "Pune",
		Experience: "7.5",
		Role:       "Senior Backend Engineer",
		Skills:     "Go; Kubernetes, go, AWS",
	}
}

var _ = Describe("Builder", func() {
	var builder *candidate.Builder

	BeforeEach(func() {
		builder = candidate.NewBuilder()
	})

	Describe("Build", func() {
		It("produces a normalized record from a valid row", func() {
			rec, err := builder.Build("EMP-1001", "  Built payment rails in Go.  ", validRow())
			Expect(err).NotTo(HaveOccurred())

			Expect(rec.EmployeeID).To(Equal("EMP-1001"))
			Expect(rec.Name).To(Equal("Asha Rao"))
			Expect(rec.Location).To(Equal("pune"))
			Expect(rec.ExperienceYears).To(Equal(7.5))
			Expect(rec.CurrentRole).To(Equal("Senior Backend Engineer"))
			Expect(rec.Skills).To(Equal([]string{"aws", "go", "kubernetes"}))
			Expect(rec.ProjectExperience).To(Equal("Built payment rails in Go."))
		})

		It("rejects a malformed employee ID", func() {
			row := validRow()
			row.EmployeeID = "EMP-12"

			_, err := builder.Build("EMP-12", "text", row)
			var verr *candidate.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Reason).To(Equal(candidate.BadValue))
			Expect(verr.Field).To(Equal("Employee ID"))
		})

		It("rejects a row without a resume", func() {
			_, err := builder.Build("", "", validRow())
			var verr *candidate.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Reason).To(Equal(candidate.MissingResume))
		})

		It("rejects a resume whose filename ID disagrees with the row", func() {
			_, err := builder.Build("EMP-2002", "text", validRow())
			var verr *candidate.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Reason).To(Equal(candidate.IdentityMismatch))
			Expect(verr.Error()).To(ContainSubstring("EMP-1001"))
			Expect(verr.Error()).To(ContainSubstring("EMP-2002"))
		})

		It("rejects missing required fields", func() {
			for _, mutate := range []func(*candidate.Row){
				func(r *candidate.Row) { r.Name = "  " },
				func(r *candidate.Row) { r.Location = "" },
				func(r *candidate.Row) { r.Experience = "" },
				func(r *candidate.Row) { r.Role = "" },
				func(r *candidate.Row) { r.Skills = " ;, " },
			} {
				row := validRow()
				mutate(&row)

				_, err := builder.Build("EMP-1001", "text", row)
				var verr *candidate.ValidationError
				Expect(errors.As(err, &verr)).To(BeTrue())
				Expect(verr.Reason).To(Equal(candidate.MissingField))
			}
		})

		It("rejects unparseable and negative experience", func() {
			row := validRow()
			row.Experience = "seven"
			_, err := builder.Build("EMP-1001", "text", row)
			var verr *candidate.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Reason).To(Equal(candidate.BadValue))

			row.Experience = "-1"
			_, err = builder.Build("EMP-1001", "text", row)
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Reason).To(Equal(candidate.BadValue))
		})

		It("accepts an empty resume text for a present resume", func() {
			rec, err := builder.Build("EMP-1001", "", validRow())
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.ProjectExperience).To(BeEmpty())
		})
	})

	Describe("BuildAll", func() {
		It("collects rejects without aborting the batch", func() {
			rows := []candidate.Row{
				validRow(),
				{Index: 3, EmployeeID: "EMP-2002", Name: "Ben Okafor", Location: "Mumbai",
					Experience: "3", Role: "Data Engineer", Skills: "python, spark"},
				{Index: 4, EmployeeID: "bogus", Name: "Nobody", Location: "Pune",
					Experience: "1", Role: "Intern", Skills: "excel"},
			}
			resumes := map[string]string{
				"EMP-1001": "Payment rails.",
				// EMP-2002 has no resume entry.
			}

			records, rejects := builder.BuildAll(rows, resumes)
			Expect(records).To(HaveLen(1))
			Expect(records[0].EmployeeID).To(Equal("EMP-1001"))

			Expect(rejects).To(HaveLen(2))
			Expect(rejects[0].RowIndex).To(Equal(3))
			Expect(rejects[1].RowIndex).To(Equal(4))
		})
	})
})

var _ = Describe("ParseSkills", func() {
	It("splits on commas and semicolons, normalizing and deduplicating", func() {
		Expect(candidate.ParseSkills("Go; go ,AWS, kubernetes")).
			To(Equal([]string{"aws", "go", "kubernetes"}))
	})

	It("returns an empty set for blank input", func() {
		Expect(candidate.ParseSkills("  ")).To(BeEmpty())
	})
})

var _ = Describe("Record", func() {
	It("reports skill membership case-insensitively", func() {
		rec := &candidate.Record{Skills: []string{"go", "kubernetes"}}
		Expect(rec.HasSkill(" Kubernetes ")).To(BeTrue())
		Expect(rec.HasSkill("java")).To(BeFalse())
	})

	It("renders the skills text fed to the sparse encoder", func() {
		rec := &candidate.Record{Skills: []string{"aws", "go"}}
		Expect(rec.SkillsText()).To(Equal("aws, go"))
	})
})

package listing_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kartiknair/metac/pkg/emit"
	"github.com/kartiknair/metac/pkg/listing"
	"github.com/kartiknair/metac/pkg/opcode"
)

const clean = "\tADR S\nS\n\tTST 'a b'\n\tBF A1\nA1\nA0\n\tR\n\tEND\n"

func kinds(issues []listing.Issue) []listing.IssueKind {
	var ks []listing.IssueKind
	for _, i := range issues {
		ks = append(ks, i.Kind)
	}
	return ks
}

var _ = Describe("Parse", func() {
	It("should read labels and instructions", func() {
		lines, err := listing.Parse(strings.NewReader(clean))
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(Equal([]emit.Line{
			{Op: opcode.ADR, Operand: "S"},
			{Label: "S"},
			{Op: opcode.TST, Operand: "'a b'"},
			{Op: opcode.BF, Operand: "A1"},
			{Label: "A1"},
			{Label: "A0"},
			{Op: opcode.R},
			{Op: opcode.END},
		}))
	})

	It("should accept CRLF and blank lines", func() {
		lines, err := listing.Parse(strings.NewReader("\tADR S\r\n\r\nS\r\n    END\r\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(HaveLen(3))
		Expect(lines[2].Op).To(Equal(opcode.END))
	})

	DescribeTable("malformed lines",
		func(input string, line int, msg string) {
			_, err := listing.Parse(strings.NewReader(input))

			var perr *listing.ParseError
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Line).To(Equal(line))
			Expect(perr.Message).To(ContainSubstring(msg))
		},
		Entry("unknown opcode", "\tADR S\n\tJMP A1\n", 2, "unknown opcode"),
		Entry("missing operand", "\tBT\n", 1, "needs an operand"),
		Entry("surplus operand", "\tADR S\n\n\tR now\n", 3, "takes no operand"),
		Entry("label with spaces", "A1 A2\n", 1, "malformed label"),
	)
})

var _ = Describe("Check", func() {
	It("should accept a clean listing", func() {
		lines, err := listing.Parse(strings.NewReader(clean))
		Expect(err).NotTo(HaveOccurred())
		Expect(listing.Check(lines)).To(BeEmpty())
	})

	It("should reject an empty listing", func() {
		Expect(kinds(listing.Check(nil))).To(Equal([]listing.IssueKind{listing.IssueStructure}))
	})

	It("should find a dangling branch", func() {
		issues := listing.Check([]emit.Line{
			{Op: opcode.ADR, Operand: "S"},
			{Label: "S"},
			{Op: opcode.BT, Operand: "A7"},
			{Op: opcode.R},
			{Op: opcode.END},
		})
		Expect(issues).To(HaveLen(1))
		Expect(issues[0].Kind).To(Equal(listing.IssueUndefinedLabel))
		Expect(issues[0].Line).To(Equal(3))
		Expect(issues[0].String()).To(Equal("LABEL: line 3: BT targets undefined label A7"))
	})

	It("should find a duplicate label", func() {
		issues := listing.Check([]emit.Line{
			{Op: opcode.ADR, Operand: "S"},
			{Label: "S"},
			{Label: "A0"},
			{Label: "A0"},
			{Op: opcode.R},
			{Op: opcode.END},
		})
		Expect(kinds(issues)).To(Equal([]listing.IssueKind{listing.IssueDuplicateLabel}))
		Expect(issues[0].Message).To(ContainSubstring("line 3"))
	})

	It("should find misplaced ADR and END", func() {
		issues := listing.Check([]emit.Line{
			{Label: "S"},
			{Op: opcode.ADR, Operand: "S"},
			{Op: opcode.END},
			{Op: opcode.R},
		})
		Expect(kinds(issues)).To(ConsistOf(listing.IssueStructure, listing.IssueStructure))
	})

	It("should report missing ADR and END", func() {
		issues := listing.Check([]emit.Line{
			{Label: "S"},
			{Op: opcode.R},
		})
		Expect(kinds(issues)).To(ContainElements(listing.IssueStructure, listing.IssueStructure))
		Expect(issues[0].String()).To(Equal("STRUCT: missing ADR"))
	})

	It("should find calls to undefined rules", func() {
		issues := listing.Check([]emit.Line{
			{Op: opcode.ADR, Operand: "S"},
			{Op: opcode.END},
		})
		Expect(kinds(issues)).To(Equal([]listing.IssueKind{listing.IssueUndefinedRule}))
	})

	It("should compare rule entry points with R", func() {
		issues := listing.Check([]emit.Line{
			{Op: opcode.ADR, Operand: "S"},
			{Label: "S"},
			{Op: opcode.CLL, Operand: "T"},
			{Label: "T"},
			{Op: opcode.R},
			{Op: opcode.END},
		})
		Expect(kinds(issues)).To(Equal([]listing.IssueKind{listing.IssueRuleCount}))
		Expect(issues[0].Message).To(Equal("2 rule entry points but 1 R instructions"))
	})
})

// Package e2e exercises the full retrieval pipeline against a synthetic
// knowledge-base corpus: documents flow through chunking, embedding, and
// both index legs, then queries assert the right documents come back.
package e2e

import (
	"fmt"
	"strings"

	"github.com/hyperjump/kotaeru/internal/models"
)

// corpusSize is the number of documents BuildCorpus generates. The base
// topic table is extended with numbered revisions until the corpus reaches
// this size, so searches run against more documents than distinct topics.
const corpusSize = 60

// CorpusDocument is one synthetic knowledge-base document.
type CorpusDocument struct {
	ID      string
	Title   string
	Content string
}

// QueryCase pairs a search query with the documents that should surface
// for it. Each query is a signature phrase that appears verbatim in the
// content of its expected documents and nowhere else in the corpus.
type QueryCase struct {
	Query          string
	ExpectedDocIDs []string
}

// Corpus bundles the generated documents with their query cases.
type Corpus struct {
	Documents []CorpusDocument
	Queries   []QueryCase
}

// BuildCorpus generates the test corpus. Output is deterministic: the same
// documents and cases are produced on every call.
func BuildCorpus() *Corpus {
	docs := buildDocuments(corpusSize)
	return &Corpus{
		Documents: docs,
		Queries:   buildQueryCases(docs),
	}
}

// ToDocumentInputs converts the corpus documents to indexing inputs.
func (c *Corpus) ToDocumentInputs() []models.DocumentInput {
	inputs := make([]models.DocumentInput, 0, len(c.Documents))
	for _, d := range c.Documents {
		inputs = append(inputs, models.DocumentInput{
			ID:      d.ID,
			Title:   d.Title,
			Content: d.Content,
			Source:  "e2e-corpus",
		})
	}
	return inputs
}

// corpusTopic seeds one document. The phrase appears verbatim in the
// content so query cases can be derived mechanically, and doubles as the
// query string itself.
type corpusTopic struct {
	title   string
	phrase  string
	content string
}

// corpusTopics reads like a company wiki: HR policies, engineering
// runbooks, sales and support playbooks, finance and IT procedures. Every
// phrase is unique across the table.
var corpusTopics = []corpusTopic{
	{"Expense Policy", "expense reimbursement policy", "Submit receipts within thirty days of purchase. The expense reimbursement policy covers travel, meals, and home office equipment up to the posted limits."},
	{"Remote Work Guide", "remote work guidelines", "Staff may work from anywhere in their home country. The remote work guidelines cover equipment stipends, network security, and core collaboration hours."},
	{"Onboarding Checklist", "new hire onboarding", "Managers prepare accounts and access before day one. New hire onboarding includes a buddy assignment and a written thirty day plan."},
	{"Time Off Policy", "paid time off accrual", "Vacation accrues monthly from the start date. Paid time off accrual carries over up to ten days into the next calendar year."},
	{"Parental Leave", "parental leave benefit", "Primary caregivers receive sixteen weeks at full pay. The parental leave benefit applies equally to birth, adoption, and fostering."},
	{"Deploy Runbook", "production deployment runbook", "Deploys go out Monday through Thursday only. The production deployment runbook requires a green pipeline and a written rollback plan."},
	{"Incident Severity", "incident severity levels", "Sev1 means a customer facing outage. Incident severity levels decide who gets paged, how often we post updates, and how deep the review goes."},
	{"On-Call Handbook", "on-call escalation path", "The primary responder acknowledges within five minutes. The on-call escalation path goes primary, then secondary, then the engineering manager."},
	{"Database Failover", "database failover procedure", "Replicas promote automatically when the primary is lost. The database failover procedure verifies replication lag before any manual switchover."},
	{"Backup Drills", "backup restore drill", "Backups are tested, never assumed. The quarterly backup restore drill restores production snapshots into an isolated staging account."},
	{"API Style Guide", "api naming conventions", "Endpoints use plural nouns and kebab case. Our api naming conventions forbid verbs in resource paths and abbreviations in field names."},
	{"Code Review Norms", "code review turnaround", "Merges are blocked until two approvals land. The expected code review turnaround is one business day for changes under four hundred lines."},
	{"Release Train", "release train schedule", "Features ride the next train and trains leave on time. The release train schedule ships a versioned build every second Tuesday."},
	{"Feature Flags", "feature flag hygiene", "Flags default to off and must expire. Feature flag hygiene requires a named owner and a removal date before the flag is created."},
	{"Error Budgets", "error budget policy", "Reliability is a feature with a budget. The error budget policy freezes risky launches once the quarterly budget is spent."},
	{"Logging Standards", "structured logging fields", "Logs are JSON with stable keys. The required structured logging fields include request id, acting user, and outcome."},
	{"Secrets Handling", "secrets rotation schedule", "Secrets never live in source control. The secrets rotation schedule rotates every credential at least once every ninety days."},
	{"Access Reviews", "quarterly access review", "Least privilege is verified, not assumed. The quarterly access review removes grants that went unused for the whole period."},
	{"Device Security", "device encryption requirement", "Disks are encrypted before first login. The device encryption requirement applies to laptops, phones, and removable media."},
	{"Phishing Response", "phishing report procedure", "Suspicious mail goes straight to the security inbox. The phishing report procedure quarantines lookalike senders across the whole company."},
	{"Vendor Intake", "vendor security assessment", "New tools pass review before purchase. The vendor security assessment checks data residency, subprocessors, and breach history."},
	{"Data Retention", "customer data retention", "We keep only what we use. Customer data retention defaults to two years after the contract ends, then deletion is automatic."},
	{"Privacy Requests", "data deletion request", "Users may ask for erasure at any time. A data deletion request completes within thirty days across every system, backups included."},
	{"Pricing Tiers", "enterprise plan pricing", "Plans scale by seats and usage. Enterprise plan pricing includes single sign-on, audit logs, and a dedicated account manager."},
	{"Discount Rules", "discount approval matrix", "Representatives cannot discount alone. The discount approval matrix routes anything past fifteen percent to the finance team."},
	{"Renewal Playbook", "renewal outreach timeline", "Renewals start long before the renewal date. The renewal outreach timeline begins ninety days out with an account health review."},
	{"Support Tiers", "support response targets", "Premium customers get a first answer within one hour. Support response targets vary by plan level and reported severity."},
	{"Escalation Matrix", "customer escalation path", "Some tickets need more than support. The customer escalation path adds an engineer and the account owner to the thread."},
	{"Refund Policy", "refund eligibility window", "Refunds are simple and fast by design. The refund eligibility window is thirty days from the date on the invoice."},
	{"Travel Booking", "corporate travel booking", "Book through the portal so insurance applies. Corporate travel booking requires manager approval for any flight over five hundred."},
	{"Procurement", "purchase order threshold", "Spending needs a paper trail. The purchase order threshold is one thousand, above which invoices require a numbered order."},
	{"Budget Cycle", "annual budget planning", "Budgets are proposals with numbers attached. Annual budget planning starts in October and locks before the December close."},
	{"Brand Voice", "brand voice guidelines", "We write plainly and confidently. The brand voice guidelines rule out jargon, buzzwords, and exclamation points."},
	{"Launch Checklist", "product launch checklist", "Launches are rehearsed, not improvised. The product launch checklist covers documentation, support macros, and a rollback story."},
	{"Research Library", "user research repository", "Insights should outlive their projects. The user research repository tags every session by product area and participant persona."},
	{"Accessibility Bar", "accessibility acceptance criteria", "We ship for everyone. The accessibility acceptance criteria require full keyboard paths and screen reader labels on every control."},
}

// buildDocuments generates n documents from the topic table. Once the
// table is exhausted, later documents are revisions of earlier topics with
// the revision number folded into the title and content, so the signature
// phrase appears in every revision as well.
func buildDocuments(n int) []CorpusDocument {
	docs := make([]CorpusDocument, 0, n)
	for i := 0; i < n; i++ {
		topic := corpusTopics[i%len(corpusTopics)]
		revision := i / len(corpusTopics)

		title := topic.title
		content := topic.content
		if revision > 0 {
			title = fmt.Sprintf("%s (revision %d)", topic.title, revision)
			content = fmt.Sprintf("Revision %d. %s", revision, topic.content)
		}

		docs = append(docs, CorpusDocument{
			ID:      fmt.Sprintf("kb-%03d", i+1),
			Title:   title,
			Content: content,
		})
	}
	return docs
}

// buildQueryCases derives one case per topic phrase, expecting every
// document whose content carries the phrase. Revisions of a topic share
// its phrase, so a case may expect several documents.
func buildQueryCases(docs []CorpusDocument) []QueryCase {
	cases := make([]QueryCase, 0, len(corpusTopics))
	for _, topic := range corpusTopics {
		var expected []string
		for _, doc := range docs {
			if strings.Contains(doc.Content, topic.phrase) {
				expected = append(expected, doc.ID)
			}
		}
		if len(expected) == 0 {
			continue
		}
		cases = append(cases, QueryCase{
			Query:          topic.phrase,
			ExpectedDocIDs: expected,
		})
	}
	return cases
}

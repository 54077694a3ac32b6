package provider

import (
	"context"
	"time"
)

// DateLayout is the day/month/year form used on the signature line.
const DateLayout = "02/01/2006"

const noticeTemplate = `To,
The Assistant Commissioner of GST,
[Address as mentioned in the notice]

Subject: Response to Show Cause Notice/Demand Notice

Sir/Madam,

With reference to the above notice, I/we submit the following response:

1. PRELIMINARY OBJECTIONS:
   - The notice may be time-barred under applicable provisions
   - Proper opportunity of hearing should be provided

2. FACTUAL SUBMISSIONS:
   [Based on your specific case details]

3. LEGAL SUBMISSIONS:
   - Reference: Relevant CGST Act sections
   - Supporting case laws and precedents

4. PRAYER:
   In light of the above, it is prayed that the notice may be dropped.

Respectfully submitted,
[Your Name]
Date: `

const templateDisclaimer = `

---
DISCLAIMER: This is a template. Please customize with your specific details and consult legal counsel.`

// Template is the offline last tier for drafting. It ignores the notice and
// never fails.
type Template struct {
	Now func() time.Time
}

func NewTemplate() *Template {
	return &Template{Now: time.Now}
}

func (t *Template) Name() string { return "template" }

func (t *Template) Render() DraftResult {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	return DraftResult{
		Success: true,
		Draft:   noticeTemplate + now().Format(DateLayout) + templateDisclaimer,
		Source:  SourceTemplate,
	}
}

func (t *Template) Draft(_ context.Context, _ DraftRequest) (DraftResult, error) {
	return t.Render(), nil
}

package search

import (
	"io"
	"testing"

	"github.com/bjtuwh/campus-assistant-go/internal/knowledge"
	"github.com/bjtuwh/campus-assistant-go/internal/logger"
)

const retrieverDoc = `{
  "knowledge_base": {
    "policy": [
      {
        "id": "policy-001",
        "title": "门诊报销政策",
        "content": "威海校区门诊医疗费报销比例为80%",
        "tags": ["门诊", "报销", "比例"],
        "ratio": "80%"
      },
      {
        "id": "policy-002",
        "title": "住院报销政策",
        "content": "住院费用报销比例为85%",
        "tags": ["住院", "报销"],
        "ratio": "85%"
      }
    ],
    "contacts": [
      {
        "id": "contact-001",
        "title": "医保办联系人",
        "content": "负责医疗报销审核",
        "name": "常春艳",
        "dept": "医保办",
        "office_location": "思源东楼812B",
        "contact": "0631-3803000"
      }
    ],
    "common_questions": [
      {
        "id": "faq-001",
        "question": "报销款多久到账",
        "answer": "审核通过后3-4周打入银行卡",
        "title": "到账时间"
      },
      {
        "id": "faq-002",
        "question": "去哪里提交材料",
        "answer": "医保办（思源东楼812B）",
        "title": "提交地点"
      },
      {
        "id": "faq-003",
        "question": "没有发票怎么办",
        "answer": "请联系医院补开",
        "title": "发票补办"
      }
    ],
    "hospitals": [
      {
        "id": "hosp-001",
        "title": "威海市中心医院",
        "name": "威海市中心医院",
        "phone": "0631-3806666",
        "tags": ["医院"]
      }
    ]
  }
}`

func newTestRetriever(t *testing.T) *Retriever {
	t.Helper()
	snap, err := knowledge.Parse([]byte(retrieverDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	log := logger.NewWithWriter("debug", io.Discard)
	return NewRetriever(knowledge.NewStore(snap), log)
}

func TestRetrieveRanksByScore(t *testing.T) {
	r := newTestRetriever(t)

	results := r.Retrieve("门诊报销比例是多少？", 3, nil)
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if got := results[0].Entry.ID; got != "policy-001" {
		t.Errorf("top result = %s, want policy-001", got)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted: %v before %v", results[i-1].Score, results[i].Score)
		}
	}
	for _, res := range results {
		if res.IsFallback {
			t.Errorf("entry %s marked fallback on a scored query", res.Entry.ID)
		}
		if res.Score <= 0 {
			t.Errorf("entry %s has non-positive score %v", res.Entry.ID, res.Score)
		}
	}
}

func TestRetrieveHonorsLimit(t *testing.T) {
	r := newTestRetriever(t)

	results := r.Retrieve("报销", 1, nil)
	if len(results) != 1 {
		t.Fatalf("len = %d, want 1", len(results))
	}
}

func TestRetrieveCategoryFilters(t *testing.T) {
	r := newTestRetriever(t)

	// The contacts filter restricts the search even though 报销 also
	// matches the policy entries.
	results := r.Retrieve("报销", 5, []string{"contacts"})
	if len(results) != 1 {
		t.Fatalf("len = %d, want 1", len(results))
	}
	if got := results[0].Entry.ID; got != "contact-001" {
		t.Errorf("result = %s, want contact-001", got)
	}
}

func TestRetrieveUnknownFiltersSearchEverything(t *testing.T) {
	r := newTestRetriever(t)

	// Filter tokens with no category mapping must not hide results.
	unfiltered := r.Retrieve("门诊报销", 5, nil)
	filtered := r.Retrieve("门诊报销", 5, []string{"enrollment", "grades"})
	if len(filtered) != len(unfiltered) {
		t.Errorf("len = %d, want %d", len(filtered), len(unfiltered))
	}
}

func TestRetrieveFallback(t *testing.T) {
	r := newTestRetriever(t)

	results := r.Retrieve("完全无关的问题xyz", 3, nil)
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2 fallback entries", len(results))
	}
	wantIDs := []string{"faq-001", "faq-002"}
	for i, res := range results {
		if !res.IsFallback {
			t.Errorf("result %d not marked fallback", i)
		}
		if res.Score != 0.1 {
			t.Errorf("fallback score = %v, want 0.1", res.Score)
		}
		if res.Entry.ID != wantIDs[i] {
			t.Errorf("fallback %d = %s, want %s", i, res.Entry.ID, wantIDs[i])
		}
	}
}

func TestRetrieveEmptyQuery(t *testing.T) {
	r := newTestRetriever(t)

	for _, q := range []string{"", "   ", "？！"} {
		if results := r.Retrieve(q, 3, nil); results != nil {
			t.Errorf("Retrieve(%q) = %v, want nil", q, results)
		}
	}
}

func TestRetrieveStableAcrossCalls(t *testing.T) {
	r := newTestRetriever(t)

	first := r.Retrieve("报销", 5, nil)
	for i := 0; i < 3; i++ {
		again := r.Retrieve("报销", 5, nil)
		if len(again) != len(first) {
			t.Fatalf("result count changed: %d then %d", len(first), len(again))
		}
		for j := range again {
			if again[j].Entry.ID != first[j].Entry.ID || again[j].Score != first[j].Score {
				t.Fatalf("ranking changed at %d: %s/%v then %s/%v",
					j, first[j].Entry.ID, first[j].Score, again[j].Entry.ID, again[j].Score)
			}
		}
	}
}

func TestRetrieveEqualScoresKeepKnowledgeOrder(t *testing.T) {
	r := newTestRetriever(t)

	// Both policy entries match 报销 identically: title exact (10) +
	// content exact (6) + keyword hits on title (5), content (3) and
	// tag (4) = 28. The tie must resolve to knowledge-base order.
	results := r.Retrieve("报销", 5, nil)
	if len(results) < 2 {
		t.Fatalf("len = %d, want at least 2", len(results))
	}
	if results[0].Score != results[1].Score {
		t.Fatalf("scores %v and %v not tied", results[0].Score, results[1].Score)
	}
	if results[0].Score != 28 {
		t.Errorf("tied score = %v, want 28", results[0].Score)
	}
	if results[0].Entry.ID != "policy-001" || results[1].Entry.ID != "policy-002" {
		t.Errorf("tied order = %s, %s, want policy-001, policy-002",
			results[0].Entry.ID, results[1].Entry.ID)
	}

	// Swapping the entries in the source document must swap the tie
	// order too: the ranking follows the store, not the entry IDs.
	reversed := `{
	  "knowledge_base": {
	    "policy": [
	      {
	        "id": "policy-002",
	        "title": "住院报销政策",
	        "content": "住院费用报销比例为85%",
	        "tags": ["住院", "报销"],
	        "ratio": "85%"
	      },
	      {
	        "id": "policy-001",
	        "title": "门诊报销政策",
	        "content": "威海校区门诊医疗费报销比例为80%",
	        "tags": ["门诊", "报销", "比例"],
	        "ratio": "80%"
	      }
	    ]
	  }
	}`
	snap, err := knowledge.Parse([]byte(reversed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rr := NewRetriever(knowledge.NewStore(snap), logger.NewWithWriter("debug", io.Discard))
	results = rr.Retrieve("报销", 5, nil)
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if results[0].Entry.ID != "policy-002" || results[1].Entry.ID != "policy-001" {
		t.Errorf("tied order = %s, %s, want policy-002, policy-001",
			results[0].Entry.ID, results[1].Entry.ID)
	}
}

func TestRetrieveTeacherQueryFindsContact(t *testing.T) {
	r := newTestRetriever(t)

	results := r.Retrieve("常春艳老师联系方式？", 3, nil)
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if got := results[0].Entry.ID; got != "contact-001" {
		t.Errorf("top result = %s, want contact-001", got)
	}
}

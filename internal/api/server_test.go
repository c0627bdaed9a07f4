package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bridgy/internal/expert"
	"bridgy/internal/llm"
	"bridgy/internal/store"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Server Suite")
}

type cannedExpert struct {
	text string
}

func (c *cannedExpert) Answer(ctx context.Context, question string) (string, error) {
	return c.text, nil
}

var _ = Describe("API Server", func() {
	var (
		server  *Server
		st      *store.MemoryStore
		handler http.Handler
	)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	createThread := func(name string) store.Thread {
		rr := do("POST", "/api/v1/threads", map[string]string{"threadName": name})
		Expect(rr.Code).To(Equal(http.StatusCreated))
		var thread store.Thread
		Expect(json.Unmarshal(rr.Body.Bytes(), &thread)).To(Succeed())
		return thread
	}

	BeforeEach(func() {
		st = store.NewMemoryStore()
		router := expert.NewRouter(expert.NewClassifier(nil, nil), map[expert.Kind]expert.Expert{
			expert.KindGeneral:    &cannedExpert{text: "a **general** answer"},
			expert.KindIntersight: &cannedExpert{text: "## Server Inventory\n\n| web-01 |"},
		}, nil)
		server = NewServer(router, st, 8091, logr.Discard())
		handler = server.Handler()
	})

	Context("Threads", func() {
		It("should create and fetch a thread", func() {
			thread := createThread("capacity planning")
			Expect(thread.ThreadID).NotTo(BeEmpty())
			Expect(thread.ThreadName).To(Equal("capacity planning"))

			rr := do("GET", "/api/v1/threads/"+thread.ThreadID, nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
		})

		It("should default the thread name when omitted", func() {
			rr := do("POST", "/api/v1/threads", map[string]string{})
			Expect(rr.Code).To(Equal(http.StatusCreated))
			var thread store.Thread
			Expect(json.Unmarshal(rr.Body.Bytes(), &thread)).To(Succeed())
			Expect(thread.ThreadName).To(HavePrefix("Conversation "))
		})

		It("should list threads", func() {
			createThread("one")
			createThread("two")

			rr := do("GET", "/api/v1/threads", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var response map[string]interface{}
			Expect(json.Unmarshal(rr.Body.Bytes(), &response)).To(Succeed())
			Expect(response["total"]).To(BeEquivalentTo(2))
		})

		It("should 404 on unknown thread", func() {
			rr := do("GET", "/api/v1/threads/nope", nil)
			Expect(rr.Code).To(Equal(http.StatusNotFound))

			rr = do("DELETE", "/api/v1/threads/nope", nil)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})

		It("should delete a thread and its messages", func() {
			thread := createThread("temp")
			rr := do("DELETE", "/api/v1/threads/"+thread.ThreadID, nil)
			Expect(rr.Code).To(Equal(http.StatusNoContent))

			rr = do("GET", "/api/v1/threads/"+thread.ThreadID, nil)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("Messages", func() {
		It("should answer, persist, and attribute a message", func() {
			thread := createThread("servers")

			rr := do("POST", "/api/v1/threads/"+thread.ThreadID+"/messages",
				map[string]string{"message": "What servers do I have?"})
			Expect(rr.Code).To(Equal(http.StatusOK))

			var response map[string]interface{}
			Expect(json.Unmarshal(rr.Body.Bytes(), &response)).To(Succeed())
			Expect(response["expert"]).To(Equal("Intersight Expert"))
			Expect(response["response"]).To(ContainSubstring("Response Provided by <b>Intersight Expert</b>"))
			Expect(response["degraded"]).To(BeFalse())
			Expect(response["followUpQuestions"]).To(HaveLen(2))

			msgs, err := st.ListMessages(context.Background(), thread.ThreadID, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].UserMessage).To(Equal("What servers do I have?"))
			Expect(msgs[0].Expert).To(Equal("Intersight Expert"))
		})

		It("should list messages oldest first", func() {
			thread := createThread("history")
			do("POST", "/api/v1/threads/"+thread.ThreadID+"/messages", map[string]string{"message": "first question here"})
			do("POST", "/api/v1/threads/"+thread.ThreadID+"/messages", map[string]string{"message": "second question here"})

			rr := do("GET", "/api/v1/threads/"+thread.ThreadID+"/messages", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var response struct {
				Items []store.Message `json:"items"`
			}
			Expect(json.Unmarshal(rr.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Items).To(HaveLen(2))
			Expect(response.Items[0].UserMessage).To(Equal("first question here"))
		})

		It("should reject an empty message", func() {
			thread := createThread("empty")
			rr := do("POST", "/api/v1/threads/"+thread.ThreadID+"/messages", map[string]string{"message": ""})
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})

		It("should 404 when the thread does not exist", func() {
			rr := do("POST", "/api/v1/threads/nope/messages", map[string]string{"message": "hi"})
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("Experts", func() {
		It("should report expert availability", func() {
			rr := do("GET", "/api/v1/experts", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var response struct {
				Items []struct {
					Name      string `json:"name"`
					Label     string `json:"label"`
					Available bool   `json:"available"`
				} `json:"items"`
			}
			Expect(json.Unmarshal(rr.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Items).To(HaveLen(5))

			byName := map[string]bool{}
			for _, item := range response.Items {
				byName[item.Name] = item.Available
			}
			Expect(byName["intersight"]).To(BeTrue())
			Expect(byName["nexus_dashboard"]).To(BeFalse())
		})
	})

	Context("LLM ping", func() {
		It("should 503 without a configured LLM", func() {
			rr := do("POST", "/api/v1/llm/ping", nil)
			Expect(rr.Code).To(Equal(http.StatusServiceUnavailable))
		})

		It("should report ok for a reachable provider", func() {
			mock := llm.NewMockProvider()
			llmRouter, err := llm.NewRouter(map[string]llm.Provider{"mock": mock}, "mock")
			Expect(err).NotTo(HaveOccurred())
			server.WithLLMRouter(llmRouter)
			handler = server.Handler()

			rr := do("POST", "/api/v1/llm/ping", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var response map[string]interface{}
			Expect(json.Unmarshal(rr.Body.Bytes(), &response)).To(Succeed())
			Expect(response["status"]).To(Equal("ok"))
			Expect(response["provider"]).To(Equal("mock"))
		})
	})
})

package llm_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/openai/openai-go"

	"chatbuff.app/backend/common/llm"
)

var _ = Describe("New", func() {
	It("rejects an empty api key", func() {
		_, err := llm.New(llm.Config{})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("API key"))
	})

	It("reports the configured model name", func() {
		client, err := llm.New(llm.Config{APIKey: "sk-test", Model: "deepseek-chat"})
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Model()).To(Equal("deepseek-chat"))
	})
})

var _ = Describe("NewDisabled", func() {
	It("fails every completion with ErrNotConfigured", func() {
		client := llm.NewDisabled("deepseek-chat")

		resp, err := client.Complete(context.Background(), llm.Request{UserPrompt: "hi"})
		Expect(resp).To(BeNil())
		Expect(err).To(MatchError(llm.ErrNotConfigured))
	})

	It("still reports a model name for the info endpoint", func() {
		Expect(llm.NewDisabled("deepseek-chat").Model()).To(Equal("deepseek-chat"))
		Expect(llm.NewDisabled("").Model()).To(Equal("deepseek-chat"))
	})
})

var _ = Describe("IsRetryable", func() {
	ctx := context.Background()

	It("treats nil as not retryable", func() {
		Expect(llm.IsRetryable(ctx, nil)).To(BeFalse())
	})

	It("does not retry cancellation or deadline errors", func() {
		Expect(llm.IsRetryable(ctx, context.Canceled)).To(BeFalse())
		Expect(llm.IsRetryable(ctx, context.DeadlineExceeded)).To(BeFalse())
	})

	It("does not retry the disabled client", func() {
		Expect(llm.IsRetryable(ctx, llm.ErrNotConfigured)).To(BeFalse())
	})

	It("retries rate limits and server errors but not other api errors", func() {
		Expect(llm.IsRetryable(ctx, &openai.Error{StatusCode: 429})).To(BeTrue())
		Expect(llm.IsRetryable(ctx, &openai.Error{StatusCode: 503})).To(BeTrue())
		Expect(llm.IsRetryable(ctx, &openai.Error{StatusCode: 400})).To(BeFalse())
	})

	It("retries network errors without an api response", func() {
		Expect(llm.IsRetryable(ctx, errors.New("connection refused"))).To(BeTrue())
	})
})

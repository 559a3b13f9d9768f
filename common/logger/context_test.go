package logger_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbuff.app/backend/common/logger"
)

var _ = Describe("LogFields", func() {
	It("returns empty fields for an unenriched context", func() {
		fields := logger.GetLogFields(context.Background())
		Expect(fields.ClientID).To(BeNil())
		Expect(fields.Component).To(BeEmpty())
	})

	It("merges fields across calls with newer values winning", func() {
		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			ClientID:  logger.Ptr("c1"),
			Component: "chatbuff.ws",
		})
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			BatchID:   logger.Ptr(int64(42)),
			Component: "chatbuff.assistant.orchestrator",
		})

		fields := logger.GetLogFields(ctx)
		Expect(*fields.ClientID).To(Equal("c1"))
		Expect(*fields.BatchID).To(Equal(int64(42)))
		Expect(fields.Component).To(Equal("chatbuff.assistant.orchestrator"))
	})

	It("keeps existing values when the newer fields are unset", func() {
		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			Speaker: logger.Ptr("user"),
		})
		ctx = logger.WithLogFields(ctx, logger.LogFields{})

		Expect(*logger.GetLogFields(ctx).Speaker).To(Equal("user"))
	})
})

var _ = Describe("Truncate", func() {
	It("passes short strings through unchanged", func() {
		Expect(logger.Truncate("hello", 10)).To(Equal("hello"))
	})

	It("cuts to the byte limit and marks the cut", func() {
		Expect(logger.Truncate("0123456789abcdef", 10)).To(Equal("0123456789..."))
	})
})

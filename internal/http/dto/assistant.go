package dto

import (
	"time"

	"chatbuff.app/backend/internal/model"
)

type ProcessRequest struct {
	Text    string `json:"text" binding:"required,min=1,max=2000"`
	Speaker string `json:"speaker,omitempty" binding:"omitempty,oneof=user other"`
}

type TranscribeRequest struct {
	AudioData  string `json:"audio_data" binding:"required"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Format     string `json:"format,omitempty"`
}

type TranscriptResponse struct {
	Text       string    `json:"text"`
	Speaker    string    `json:"speaker"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

func ToTranscriptResponse(seg model.TranscriptSegment) TranscriptResponse {
	return TranscriptResponse{
		Text:       seg.Text,
		Speaker:    string(seg.Speaker),
		Confidence: seg.Confidence,
		Timestamp:  seg.Timestamp,
	}
}

type SuggestionItem struct {
	Type       string  `json:"type"`
	Content    string  `json:"content"`
	Source     string  `json:"source,omitempty"`
	Confidence float64 `json:"confidence"`
}

type BatchResponse struct {
	Transcript     *TranscriptResponse `json:"transcript,omitempty"`
	Suggestions    []SuggestionItem    `json:"suggestions"`
	ContextSummary string              `json:"context_summary"`
	Topics         []string            `json:"topics"`
	RelatedNews    []model.NewsItem    `json:"related_news"`
}

func ToBatchResponse(batch *model.SuggestionBatch) BatchResponse {
	resp := BatchResponse{
		Suggestions:    make([]SuggestionItem, 0, len(batch.Suggestions)),
		ContextSummary: batch.ContextSummary,
		Topics:         batch.Topics,
		RelatedNews:    batch.RelatedNews,
	}
	if resp.Topics == nil {
		resp.Topics = []string{}
	}
	if resp.RelatedNews == nil {
		resp.RelatedNews = []model.NewsItem{}
	}
	if batch.Transcript != nil {
		tr := ToTranscriptResponse(*batch.Transcript)
		resp.Transcript = &tr
	}
	for _, s := range batch.Suggestions {
		resp.Suggestions = append(resp.Suggestions, SuggestionItem{
			Type:       string(s.Kind),
			Content:    s.Content,
			Source:     s.Source,
			Confidence: s.Confidence,
		})
	}
	return resp
}

type HistoryResponse struct {
	History []TranscriptResponse `json:"history"`
	Count   int                  `json:"count"`
}

func ToHistoryResponse(segments []model.TranscriptSegment) HistoryResponse {
	resp := HistoryResponse{History: make([]TranscriptResponse, 0, len(segments))}
	for _, seg := range segments {
		resp.History = append(resp.History, ToTranscriptResponse(seg))
	}
	resp.Count = len(resp.History)
	return resp
}

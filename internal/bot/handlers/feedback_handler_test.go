package handlers

import "testing"

func TestParseFeedbackData(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name              string
		data              string
		expectedAction    string
		expectedTopicID   int
		expectedMessageID int
		expectError       bool
	}{
		{
			name:              "like",
			data:              "like_42_1337",
			expectedAction:    "like",
			expectedTopicID:   42,
			expectedMessageID: 1337,
		},
		{
			name:              "dislike",
			data:              "dislike_0_7",
			expectedAction:    "dislike",
			expectedTopicID:   0,
			expectedMessageID: 7,
		},
		{
			name:        "too few parts",
			data:        "like_42",
			expectError: true,
		},
		{
			name:        "non-numeric topic",
			data:        "like_abc_7",
			expectError: true,
		},
		{
			name:        "non-numeric message id",
			data:        "like_42_xyz",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			action, topicID, messageID, err := parseFeedbackData(tc.data)
			if tc.expectError {
				if err == nil {
					t.Fatalf("expected error for %q", tc.data)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if action != tc.expectedAction || topicID != tc.expectedTopicID || messageID != tc.expectedMessageID {
				t.Errorf("got (%s, %d, %d), expected (%s, %d, %d)",
					action, topicID, messageID, tc.expectedAction, tc.expectedTopicID, tc.expectedMessageID)
			}
		})
	}
}

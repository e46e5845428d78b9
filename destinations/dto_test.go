package destinations

import "testing"

func TestUpdateDestinationRequest_IsEmpty(t *testing.T) {
	t.Parallel()

	if !(UpdateDestinationRequest{}).IsEmpty() {
		t.Fatalf("zero-value request must be empty")
	}

	name := "Playa Blanca"
	if (UpdateDestinationRequest{Name: &name}).IsEmpty() {
		t.Fatalf("request with a name must not be empty")
	}

	cats := []int{}
	if (UpdateDestinationRequest{CategoryIDs: &cats}).IsEmpty() {
		t.Fatalf("an explicit empty category set still counts as a change")
	}
}

package common

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		in                  Page
		page, limit, offset int
	}{
		{in: Page{}, page: 1, limit: DefaultPerPage, offset: 0},
		{in: Page{Number: 3, PerPage: 10}, page: 3, limit: 10, offset: 20},
		{in: Page{Number: -1, PerPage: 1000}, page: 1, limit: MaxPerPage, offset: 0},
	}
	for _, tc := range cases {
		page, limit, offset := NormalizePage(tc.in)
		if page != tc.page || limit != tc.limit || offset != tc.offset {
			t.Fatalf("NormalizePage(%+v) = (%d,%d,%d), want (%d,%d,%d)",
				tc.in, page, limit, offset, tc.page, tc.limit, tc.offset)
		}
	}
}

func TestSlicePage(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}

	got := SlicePage(all, Page{Number: 2, PerPage: 2})
	want := PageResult[int]{Items: []int{3, 4}, TotalCount: 5, TotalPages: 3, Page: 2, PerPage: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("SlicePage mismatch (-want +got):\n%s", diff)
	}

	past := SlicePage(all, Page{Number: 9, PerPage: 2})
	if len(past.Items) != 0 || past.TotalCount != 5 {
		t.Fatalf("page past the end = %+v", past)
	}
}

package perception

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sceneguard/internal/model"
)

func TestClusterer_GroupsByClassAndDistance(t *testing.T) {
	c := NewClusterer(50)

	clusters := c.Cluster([]model.FilteredDetection{
		det("cup", 0.5, 100, 100, 0),
		det("laptop", 0.8, 120, 100, 0),
		det("cup", 0.6, 110, 105, 1),
		det("cup", 0.4, 300, 300, 1),
		det("laptop", 0.8, 121, 101, 1),
	})

	require.Len(t, clusters, 3)
	assert.Equal(t, "cup", clusters[0].Class)
	assert.Len(t, clusters[0].Members, 2)
	assert.Equal(t, "laptop", clusters[1].Class)
	assert.Len(t, clusters[1].Members, 2)
	assert.Equal(t, "cup", clusters[2].Class)
	assert.Len(t, clusters[2].Members, 1)
}

func TestClusterer_DistanceIsStrict(t *testing.T) {
	c := NewClusterer(50)

	clusters := c.Cluster([]model.FilteredDetection{
		det("cup", 0.5, 100, 100, 0),
		det("cup", 0.5, 150, 100, 1), // exactly 50px away
	})

	assert.Len(t, clusters, 2)
}

func TestClusterer_AnchorIsFirstMember(t *testing.T) {
	c := NewClusterer(50)

	// The second detection joins, but the third is compared to the anchor at
	// x=100 rather than the nearer member at x=140.
	clusters := c.Cluster([]model.FilteredDetection{
		det("cup", 0.5, 100, 100, 0),
		det("cup", 0.5, 140, 100, 1),
		det("cup", 0.5, 175, 100, 2),
	})

	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0].Members, 2)
	assert.Equal(t, 175, clusters[1].Anchor().Center.X)
}

func TestClusterer_FirstMatchWins(t *testing.T) {
	c := NewClusterer(50)

	// Two cup anchors 60px apart. A detection 45px from the first and 15px
	// from the second still joins the first-created cluster.
	clusters := c.Cluster([]model.FilteredDetection{
		det("cup", 0.5, 100, 100, 0),
		det("cup", 0.5, 160, 100, 0),
		det("cup", 0.5, 145, 100, 1),
	})

	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0].Members, 2)
	assert.Len(t, clusters[1].Members, 1)
}

func TestClusterer_Deterministic(t *testing.T) {
	c := NewClusterer(50)
	input := []model.FilteredDetection{
		det("cup", 0.5, 100, 100, 0),
		det("cup", 0.5, 130, 100, 1),
		det("book", 0.7, 400, 200, 1),
		det("cup", 0.5, 160, 100, 2),
		det("book", 0.6, 420, 210, 3),
		det("cup", 0.5, 95, 102, 4),
	}

	first := c.Cluster(input)
	second := c.Cluster(input)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("clustering not deterministic (-first +second):\n%s", diff)
	}
}

func TestClusterer_Empty(t *testing.T) {
	assert.Empty(t, NewClusterer(50).Cluster(nil))
}

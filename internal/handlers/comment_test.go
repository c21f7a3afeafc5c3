package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"partstore/internal/models"
)

func testComment(content string, parent *primitive.ObjectID, at time.Time) models.Comment {
	return models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   content,
		ParentID:  parent,
		CreatedAt: at,
	}
}

func TestBuildCommentTree(t *testing.T) {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	second := testComment("second root", nil, base.Add(2*time.Hour))
	first := testComment("first root", nil, base)
	reply := testComment("reply", &first.ID, base.Add(time.Hour))
	nested := testComment("nested reply", &reply.ID, base.Add(3*time.Hour))

	tree := buildCommentTree([]models.Comment{second, nested, reply, first})

	if len(tree) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tree))
	}
	if tree[0].Content != "first root" || tree[1].Content != "second root" {
		t.Fatalf("roots not oldest-first: %q, %q", tree[0].Content, tree[1].Content)
	}
	if len(tree[0].Replies) != 1 || tree[0].Replies[0].Content != "reply" {
		t.Fatalf("expected one reply under first root, got %+v", tree[0].Replies)
	}
	if len(tree[0].Replies[0].Replies) != 1 || tree[0].Replies[0].Replies[0].Content != "nested reply" {
		t.Fatal("expected nested reply under reply")
	}
}

func TestBuildCommentTreeDropsOrphans(t *testing.T) {
	base := time.Now()
	missingParent := primitive.NewObjectID()

	root := testComment("root", nil, base)
	orphan := testComment("orphan", &missingParent, base)

	tree := buildCommentTree([]models.Comment{root, orphan})

	if len(tree) != 1 {
		t.Fatalf("expected orphan to be dropped, got %d roots", len(tree))
	}
	if tree[0].Content != "root" {
		t.Fatalf("unexpected root %q", tree[0].Content)
	}
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	tree := buildCommentTree(nil)
	if len(tree) != 0 {
		t.Fatalf("expected empty tree, got %d nodes", len(tree))
	}
}

func TestBuildCommentTreeRepliesSorted(t *testing.T) {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	root := testComment("root", nil, base)
	late := testComment("late", &root.ID, base.Add(2*time.Hour))
	early := testComment("early", &root.ID, base.Add(time.Hour))

	tree := buildCommentTree([]models.Comment{root, late, early})

	if len(tree[0].Replies) != 2 {
		t.Fatalf("expected 2 replies, got %d", len(tree[0].Replies))
	}
	if tree[0].Replies[0].Content != "early" {
		t.Fatalf("replies not oldest-first: %q first", tree[0].Replies[0].Content)
	}
}

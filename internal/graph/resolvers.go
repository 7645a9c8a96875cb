package graph

import (
	"github.com/graphql-go/graphql"
	"github.com/isdelr/postboard-be/internal/models"
	"github.com/isdelr/postboard-be/internal/services"
)

// resolver dispatches schema fields to the service layer. All authorization
// lives in the services; resolvers only translate arguments.
type resolver struct {
	users services.UserServiceProvider
	posts services.PostServiceProvider
}

func (r *resolver) login(p graphql.ResolveParams) (interface{}, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	token, userID, err := r.users.Login(p.Context, email, password)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"token": token, "userId": userID}, nil
}

func (r *resolver) createUser(p graphql.ResolveParams) (interface{}, error) {
	input, _ := p.Args["userInput"].(map[string]interface{})
	email, _ := input["email"].(string)
	name, _ := input["name"].(string)
	password, _ := input["password"].(string)

	return r.users.Signup(p.Context, email, name, password)
}

func (r *resolver) getUser(p graphql.ResolveParams) (interface{}, error) {
	return r.users.GetViewer(p.Context)
}

func (r *resolver) updateStatus(p graphql.ResolveParams) (interface{}, error) {
	status, _ := p.Args["status"].(string)
	return r.users.UpdateStatus(p.Context, status)
}

func (r *resolver) listPosts(p graphql.ResolveParams) (interface{}, error) {
	page, _ := p.Args["page"].(int)

	posts, total, err := r.posts.List(p.Context, page)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return map[string]interface{}{"posts": posts, "totalPosts": total}, nil
}

func (r *resolver) getPost(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	return r.posts.Get(p.Context, id)
}

func (r *resolver) createPost(p graphql.ResolveParams) (interface{}, error) {
	input, _ := p.Args["postInput"].(map[string]interface{})
	title, _ := input["title"].(string)
	content, _ := input["content"].(string)
	imageURL, _ := input["imageUrl"].(string)

	return r.posts.Create(p.Context, services.PostInput{
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
	})
}

func (r *resolver) updatePost(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	input, _ := p.Args["postInput"].(map[string]interface{})
	title, _ := input["title"].(string)
	content, _ := input["content"].(string)

	// imageUrl is three-state: absent keeps the stored image, a value
	// replaces it.
	var image *string
	if raw, ok := input["imageUrl"]; ok && raw != nil {
		s, _ := raw.(string)
		image = &s
	}

	return r.posts.Update(p.Context, id, services.PostUpdateInput{
		Title:   title,
		Content: content,
		Image:   image,
	})
}

func (r *resolver) deletePost(p graphql.ResolveParams) (interface{}, error) {
	if err := r.posts.Delete(p.Context, p.Args["id"].(string)); err != nil {
		return nil, err
	}
	return true, nil
}

package api

// Service accessors group Client methods by API area. Each service embeds
// *Client so it satisfies Requester.

type AgentsService struct{ *Client }

type EngagementService struct{ *Client }

type MessagingService struct{ *Client }

type OperationalService struct{ *Client }

type HistoryService struct{ *Client }

type VisitorsService struct{ *Client }

type UsersService struct{ *Client }

func (c *Client) Agents() AgentsService {
	return AgentsService{c}
}

func (c *Client) Engagement() EngagementService {
	return EngagementService{c}
}

func (c *Client) Messaging() MessagingService {
	return MessagingService{c}
}

func (c *Client) Operational() OperationalService {
	return OperationalService{c}
}

func (c *Client) History() HistoryService {
	return HistoryService{c}
}

func (c *Client) Visitors() VisitorsService {
	return VisitorsService{c}
}

func (c *Client) Users() UsersService {
	return UsersService{c}
}

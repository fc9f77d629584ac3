package sqlinline

const QCountSourcesByUser = `--sql 7777f168-8d71-4dd6-b208-1107f67589e3
select count(*)
from sources
where user_id = $1;
`

const QCountCategoriesByUser = `--sql 550040ac-2a6a-4566-aa98-92fde96abba6
select count(*)
from categories
where user_id = $1;
`

const QCountPublicFeedsByUser = `--sql 7b326abe-3cf6-4673-a444-3eea091d465e
select count(*)
from public_feeds
where user_id = $1;
`

const QInsertSource = `--sql 76caeb6d-da51-485b-937f-2b0a8d9398e2
insert into sources (user_id, feed_url, created_at)
values ($1, $2, now())
returning id;
`

const QInsertCategory = `--sql d0aea141-b879-4de4-abdf-b84717dd0506
insert into categories (user_id, name, created_at)
values ($1, $2, now())
returning id;
`

const QInsertPublicFeed = `--sql 8fa4d025-0583-493f-a517-306f8ed5917d
insert into public_feeds (user_id, slug, created_at)
values ($1, $2, now())
returning id;
`
